package cli

import "fmt"

// mmPerInch converts between the metric model and imperial display units.
const mmPerInch = 25.4

// formatLength renders a millimeter length in the configured display unit.
// Internal geometry is always millimeters; only CLI output converts.
func (c *CLI) formatLength(mm float64) string {
	if c.Config.Units == "in" {
		return fmt.Sprintf("%.3f in", mm/mmPerInch)
	}
	return fmt.Sprintf("%.1f mm", mm)
}

// formatPosition renders a position along a strip, used for notch listings.
func (c *CLI) formatPosition(mm float64) string {
	if c.Config.Units == "in" {
		return fmt.Sprintf("%.3f", mm/mmPerInch)
	}
	return fmt.Sprintf("%.1f", mm)
}
