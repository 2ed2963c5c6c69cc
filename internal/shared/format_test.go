package shared

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name    string
		seconds int
		want    string
	}{
		{"Zero Is Placeholder", 0, "--:--"},
		{"Negative Is Placeholder", -5, "--:--"},
		{"Under A Minute", 42, "0:42"},
		{"Minutes And Seconds", 215, "3:35"},
		{"Exact Hour", 3600, "1:00:00"},
		{"Hours Minutes Seconds", 3725, "1:02:05"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := FormatDuration(c.seconds); got != c.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"n": 1}, false)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `{"n":1}` {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"n": 1}, true)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "{\n  \"n\": 1\n}" {
			t.Errorf("unexpected output %q", data)
		}
	})
}
