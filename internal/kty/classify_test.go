package kty

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		positional []string
		exitCode   int
		want       Class
	}{
		{"success", "main", []string{"ja", "el"}, 0, ClassSuccess},
		{"no entries", "ipa", []string{"ja", "el"}, 1, ClassNoEntries},
		{"invalid pairing", "main", []string{"ja", "el"}, 2, ClassSkipped},
		{"unexpected failure", "main", []string{"ja", "el"}, 7, ClassFatal},
		{"english gap main", "main", []string{"ku", "en"}, 7, ClassSkipped},
		{"english gap ipa", "ipa", []string{"ku", "en"}, 3, ClassSkipped},
		{"english gap only second arg", "main", []string{"en", "el"}, 7, ClassFatal},
		{"glossary no english gap", "glossary", []string{"el", "en"}, 7, ClassFatal},
		{"download failure", "download", []string{"el", "el"}, 7, ClassFatal},
		{"ipa-merged single arg", "ipa-merged", []string{"el"}, 5, ClassFatal},
		{"exit 1 beats english gap", "main", []string{"ku", "en"}, 1, ClassNoEntries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.operation, tt.positional, tt.exitCode)
			if got != tt.want {
				t.Errorf("Classify(%q, %v, %d) = %s, want %s",
					tt.operation, tt.positional, tt.exitCode, got, tt.want)
			}
		})
	}
}

func TestClassBenign(t *testing.T) {
	for _, c := range []Class{ClassSuccess, ClassNoEntries, ClassSkipped} {
		if !c.Benign() {
			t.Errorf("%s should be benign", c)
		}
	}
	if ClassFatal.Benign() {
		t.Error("fatal must not be benign")
	}
}
