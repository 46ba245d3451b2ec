package fieldlog

// MergedColumns is the merged-records header: the join keys, then every
// non-key column suffixed _Start and _Stop, then the elapsed-time delta.
func MergedColumns() []string {
	cols := []string{"ID", "Site"}
	for _, h := range Header {
		if h == "ID" || h == "Site" {
			continue
		}
		cols = append(cols, h+"_Start")
	}
	for _, h := range Header {
		if h == "ID" || h == "Site" {
			continue
		}
		cols = append(cols, h+"_Stop")
	}
	return append(cols, "Elapsed Time Diff (min)")
}

// Merge inner-joins START and STOP entries on (ID, Site) and computes the
// elapsed-time difference for each pair. Every START matches every STOP
// sharing its key, matching the source-of-record behavior.
func Merge(entries []Entry) [][]interface{} {
	type key struct {
		id   string
		site string
	}
	starts := make(map[key][]Entry)
	stops := make(map[key][]Entry)
	var order []key
	seen := make(map[key]struct{})

	for _, e := range entries {
		k := key{e.ID, e.Site}
		switch e.EntryType {
		case EntryStart:
			starts[k] = append(starts[k], e)
		case EntryStop:
			stops[k] = append(stops[k], e)
		default:
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			order = append(order, k)
		}
	}

	var rows [][]interface{}
	for _, k := range order {
		for _, start := range starts[k] {
			for _, stop := range stops[k] {
				row := []interface{}{k.id, k.site}
				row = append(row, nonKeyCells(start)...)
				row = append(row, nonKeyCells(stop)...)
				row = append(row, stop.ElapsedMin-start.ElapsedMin)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func nonKeyCells(e Entry) []interface{} {
	full := e.row()
	cells := make([]interface{}, 0, len(full)-2)
	for i, h := range Header {
		if h == "ID" || h == "Site" {
			continue
		}
		cells = append(cells, full[i])
	}
	return cells
}
