package importer

// FilterNew drops every candidate day already represented in persisted
// history. Filtering is day-level: one existing transaction on a date
// discards the whole re-extracted day, so re-importing the same workbook is
// idempotent. The count of dropped days is reported, never raised.
func FilterNew(candidates []DaySummary, existingDates map[string]struct{}) ([]DaySummary, int) {
	newDays := make([]DaySummary, 0, len(candidates))
	duplicateCount := 0
	for _, day := range candidates {
		if _, ok := existingDates[day.Date]; ok {
			duplicateCount++
			continue
		}
		newDays = append(newDays, day)
	}
	return newDays, duplicateCount
}
