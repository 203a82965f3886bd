package api

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractLocation reads the location from the path segment, falling back
// to the q and query parameters. Values arrive decoded once.
func ExtractLocation(c *gin.Context) string {
	location := c.Param("location")
	if location == "" {
		location = c.Query("q")
	}
	if location == "" {
		location = c.Query("query")
	}
	return strings.TrimSpace(RepairDoubleEncoding(location))
}

// RepairDoubleEncoding decodes s once more when encoded spaces, commas or
// plus signs survived the first decode.
func RepairDoubleEncoding(s string) string {
	upper := strings.ToUpper(s)
	if !strings.Contains(upper, "%20") && !strings.Contains(upper, "%2C") && !strings.Contains(upper, "%2B") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// PrayerTimesCacheKey keys the prayer-times routes by normalized location
// and the flags that change the payload. Requests without a location
// bypass the cache.
func PrayerTimesCacheKey(c *gin.Context) string {
	location := strings.Join(strings.Fields(strings.ToLower(ExtractLocation(c))), " ")
	if location == "" {
		return ""
	}
	key := "prayer-times:" + location
	if queryFlag(c, "asr_adjustment") {
		key += "|asr_adjustment"
	}
	if queryFlag(c, "highlight") {
		key += "|highlight"
	}
	return key
}
