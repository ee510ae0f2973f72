package bucket

// screenDates is the 41-record weekly sample spanning 2016-10-04 through 2016-12-29.
var screenDates = []string{
	"2016-10-04", "2016-10-04", "2016-10-06", "2016-10-06",
	"2016-10-11", "2016-10-11", "2016-10-13", "2016-10-18",
	"2016-10-18", "2016-10-20", "2016-10-20", "2016-10-25",
	"2016-10-25", "2016-10-27", "2016-11-01", "2016-11-01",
	"2016-11-03", "2016-11-03", "2016-11-03", "2016-11-08",
	"2016-11-10", "2016-11-10", "2016-11-10", "2016-11-15",
	"2016-11-15", "2016-11-17", "2016-11-17", "2016-11-17",
	"2016-12-01", "2016-12-06", "2016-12-06", "2016-12-08",
	"2016-12-08", "2016-12-13", "2016-12-13", "2016-12-13",
	"2016-12-15", "2016-12-15", "2016-12-22", "2016-12-29",
	"2016-12-29",
}

func sampleRecords() []Record {
	records := make([]Record, 0, len(screenDates))
	for _, d := range screenDates {
		records = append(records, Record{"date": d})
	}
	return records
}

var groupADates = []string{
	"2015-09-06", "2015-09-07", "2015-09-08", "2015-09-09",
	"2016-10-04", "2016-10-04", "2016-10-06", "2016-10-06",
	"2016-10-11", "2016-10-11", "2016-10-13", "2016-10-18",
	"2016-10-18", "2016-10-20", "2016-10-20", "2016-10-25",
	"2016-10-25", "2016-10-27", "2016-11-01", "2016-11-01",
	"2016-11-03", "2016-11-03", "2016-11-03", "2016-11-08",
	"2016-11-10", "2016-11-15", "2016-11-15", "2016-11-17",
	"2016-11-17", "2016-12-01", "2016-12-06", "2016-12-08",
	"2016-12-08", "2016-12-13", "2016-12-15", "2016-12-15",
	"2016-12-29", "2016-12-29",
}

var groupBDates = []string{
	"2016-10-04", "2016-10-06", "2016-10-06", "2016-10-11",
	"2016-10-13", "2016-10-18", "2016-10-20", "2016-10-20",
	"2016-10-27", "2016-11-01", "2016-11-03", "2016-11-03",
	"2016-11-08", "2016-11-10", "2016-11-10", "2016-11-10",
	"2016-11-15", "2016-11-15", "2016-11-17", "2016-11-17",
	"2016-11-17", "2016-12-01", "2016-12-06", "2016-12-06",
	"2016-12-08", "2016-12-08", "2016-12-13", "2016-12-13",
	"2016-12-13", "2016-12-15", "2016-12-15", "2016-12-22",
	"2016-12-29", "2016-12-29",
}

func groupedRecords() []Record {
	records := make([]Record, 0, len(groupADates)+len(groupBDates))
	for _, d := range groupADates {
		records = append(records, Record{"group": "A", "date": d})
	}
	for _, d := range groupBDates {
		records = append(records, Record{"group": "B", "date": d})
	}
	return records
}

func assertMonotonic(t testingT, m BucketMap) {
	for i := 1; i < len(m); i++ {
		if m[i].Count < m[i-1].Count {
			t.Errorf("bucket %s (%d) is lower than %s (%d)", m[i].Date, m[i].Count, m[i-1].Date, m[i-1].Count)
		}
		if m[i].Date <= m[i-1].Date {
			t.Errorf("bucket keys out of order: %s after %s", m[i].Date, m[i-1].Date)
		}
	}
}

type testingT interface {
	Errorf(format string, args ...any)
}
