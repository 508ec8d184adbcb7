// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/emi-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateView checks if the schedule view is one of the supported projections.
func ValidateView(view string) error {
	switch view {
	case constants.ViewMonthly, constants.ViewYearly, constants.ViewGrouped:
		return nil
	}
	return fmt.Errorf("expected view of %s, %s or %s, got %s",
		constants.ViewMonthly, constants.ViewYearly, constants.ViewGrouped, view)
}

// ValidateExportFormat checks if the export format is one of the supported formats.
func ValidateExportFormat(format string) error {
	switch format {
	case constants.ExportFormatTable, constants.ExportFormatVisual, constants.ExportFormatCSV:
		return nil
	}
	return fmt.Errorf("expected export format of %s, %s or %s, got %s",
		constants.ExportFormatTable, constants.ExportFormatVisual, constants.ExportFormatCSV, format)
}
