package calendar

// AlignToIntervalStart parses date and returns the start of its interval as YYYY-MM-DD.
func AlignToIntervalStart(date string, interval Interval) (string, error) {
	interval, err := interval.Canonical()
	if err != nil {
		return "", err
	}
	t, err := Default.Parse(date)
	if err != nil {
		return "", err
	}
	return Default.Format(Default.AlignToIntervalStart(t, interval)), nil
}

// EnumerateIntervalStarts returns the YYYY-MM-DD interval starts covering [start, end].
func EnumerateIntervalStarts(start, end string, interval Interval) ([]string, error) {
	interval, err := interval.Canonical()
	if err != nil {
		return nil, err
	}
	s, err := Default.Parse(start)
	if err != nil {
		return nil, err
	}
	e, err := Default.Parse(end)
	if err != nil {
		return nil, err
	}

	starts := Default.EnumerateIntervalStarts(s, e, interval)
	keys := make([]string, 0, len(starts))
	for _, t := range starts {
		keys = append(keys, Default.Format(t))
	}
	return keys, nil
}
