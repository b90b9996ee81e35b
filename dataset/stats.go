package dataset

/*
ClassCounts takes a dataset and returns the number of records of each
class, indexed by class id (see Dataset.Classes).
*/
func ClassCounts(s Dataset) []int {
	counts := make([]int, len(s.Classes()))
	for i := 0; i < s.Count(); i++ {
		counts[s.Class(i)]++
	}
	return counts
}

/*
Pure returns whether all the records in the given dataset share the same
label. An empty dataset is pure.
*/
func Pure(s Dataset) bool {
	for i := 1; i < s.Count(); i++ {
		if s.Class(i) != s.Class(0) {
			return false
		}
	}
	return true
}

/*
MajorityLabel returns the most frequent label in the dataset. When several
labels share the maximal count, the one appearing first in the record order
of the dataset is returned. An empty dataset yields an empty label.
*/
func MajorityLabel(s Dataset) string {
	counts := ClassCounts(s)
	best, bestCount := -1, 0
	for i := 0; i < s.Count(); i++ {
		c := s.Class(i)
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	if best < 0 {
		return ""
	}
	return s.Classes()[best]
}

/*
Labels returns the labels of the records in the dataset, in order.
*/
func Labels(s Dataset) []string {
	labels := make([]string, s.Count())
	for i := range labels {
		labels[i] = s.Label(i)
	}
	return labels
}

/*
Records returns the records of the dataset, in order.
*/
func Records(s Dataset) []Record {
	records := make([]Record, s.Count())
	for i := range records {
		records[i] = Record{Features: s.Features(i), Label: s.Label(i)}
	}
	return records
}
