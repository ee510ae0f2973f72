package bucket

// Group is one partition of the input records, in input order.
type Group struct {
	Key     string
	Records []Record
}

// GroupBy partitions records by the string value of groupField, in order of first
// appearance. An empty groupField yields a single NoGroups partition holding every record.
func GroupBy(records []Record, groupField string) []Group {
	if groupField == "" {
		return []Group{{Key: string(NoGroups), Records: records}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		key := FieldString(r, groupField)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
