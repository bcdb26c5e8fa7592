package geo

import "testing"

func TestPointJSONRoundTrip(t *testing.T) {
	cases := []Point{{0, 0}, {1.5, -2.25}, {-100, 100}}
	for _, p := range cases {
		b, err := p.MarshalJSON()
		if err != nil {
			t.Log("ERROR:", err)
			t.Fail()
			continue
		}
		var got Point
		if err := got.UnmarshalJSON(b); err != nil {
			t.Log("ERROR:", err)
			t.Fail()
			continue
		}
		if got != p {
			t.Log("ERROR: got", got, "want", p)
			t.Fail()
		}
	}
}
