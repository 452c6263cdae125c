package gateway

import "testing"

func TestCleanup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"collapses blank lines",
			"first paragraph\n\n\n\nsecond paragraph",
			"first paragraph\n\nsecond paragraph",
		},
		{
			"collapses space runs",
			"too   many    spaces",
			"too many spaces",
		},
		{
			"splits joined words",
			"the headacheStarted yesterday",
			"the headache Started yesterday",
		},
		{
			"leaves link lines alone",
			"[1] [Mayo Clinic](https://mayoclinic.org/someCamelPath)",
			"[1] [Mayo Clinic](https://mayoclinic.org/someCamelPath)",
		},
		{
			"promotes label lines",
			"CAUSES AND RISK FACTORS:\nstress, dehydration",
			"**CAUSES AND RISK FACTORS**\nstress, dehydration",
		},
		{
			"closes unbalanced bold",
			"this is **important",
			"this is **important**",
		},
		{
			"trims surrounding whitespace",
			"  hello  \n",
			"hello",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cleanup(tt.in)
			if got != tt.want {
				t.Errorf("Cleanup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanupIdempotent(t *testing.T) {
	inputs := []string{
		"CAUSES AND RISK FACTORS:\n\n\n\ntoo   many spaces and a headacheStarted **bold",
		"plain already clean text.",
		"**Sources:**\n[1] [CDC](https://cdc.gov)",
		"*italic left open",
	}
	for _, in := range inputs {
		once := Cleanup(in)
		twice := Cleanup(once)
		if once != twice {
			t.Errorf("Cleanup not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}
