package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ExportFormats are the listing export formats the backend renders.
var ExportFormats = []string{"csv", "pdf", "xlsx"}

// Export downloads the product listing in the given format ("csv", "pdf"
// or "xlsx"), filtered the same way the listing is, and writes it to a
// timestamped file in the current directory. It returns the filename.
func (c *Client) Export(format, q, site string) (string, error) {
	valid := false
	for _, f := range ExportFormats {
		if f == format {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("unknown export format %q", format)
	}

	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if site != "" {
		v.Set("site", site)
	}

	data, err := c.do(http.MethodGet, "/export_"+format, v, nil)
	if err != nil {
		return "", fmt.Errorf("failed to export products: %w", err)
	}

	filename := fmt.Sprintf("products-%s.%s", time.Now().Format("20060102-150405"), format)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return filename, nil
}
