package location

// Locality and administrative-area lookup orders for display names.
// The precedence is fixed: it is what makes display strings stable
// enough to deduplicate on across heterogeneous component sets.
var (
	localityKeys = []string{"city", "town", "municipality", "village", "county"}
	adminKeys    = []string{"state", "region"}
)

// MakeDisplayName builds a human-readable "Locality, Admin, Country"
// label from a provider component map. It is total: any input, including
// a nil or empty map, yields a non-empty string.
func MakeDisplayName(components map[string]string, formatted, country string) string {
	locality := firstNonEmpty(components, localityKeys)
	admin := firstNonEmpty(components, adminKeys)

	switch {
	case locality != "" && admin != "":
		return locality + ", " + admin + ", " + country
	case locality != "":
		return locality + ", " + country
	case admin != "":
		return admin + ", " + country
	case formatted != "":
		return formatted
	default:
		return country
	}
}

func firstNonEmpty(components map[string]string, keys []string) string {
	for _, k := range keys {
		if v := components[k]; v != "" {
			return v
		}
	}
	return ""
}
