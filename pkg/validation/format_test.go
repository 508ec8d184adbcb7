package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "Valid pretty format", format: "pretty", expectErr: false},
		{name: "Valid csv format", format: "csv", expectErr: false},
		{name: "Invalid format", format: "json", expectErr: true},
		{name: "Empty format", format: "", expectErr: true},
		{name: "Case sensitive - uppercase", format: "PRETTY", expectErr: true},
		{name: "Leading/trailing spaces", format: " pretty ", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)

			if tt.expectErr {
				if err == nil {
					t.Errorf("ValidateOutputFormat(%s) expected error but got none", tt.format)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateOutputFormat(%s) unexpected error = %v", tt.format, err)
				}
			}
		})
	}
}

func TestValidateView(t *testing.T) {
	tests := []struct {
		view      string
		expectErr bool
	}{
		{"monthly", false},
		{"yearly", false},
		{"grouped", false},
		{"weekly", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateView(tt.view)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateView(%q) error = %v, expectErr %v", tt.view, err, tt.expectErr)
		}
	}
}

func TestValidateExportFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"table", false},
		{"visual", false},
		{"csv", false},
		{"pdf", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateExportFormat(tt.format)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateExportFormat(%q) error = %v, expectErr %v", tt.format, err, tt.expectErr)
		}
	}
}
