package util

// DateFormat is the UTC calendar-day layout used by streak and chart bucketing.
const DateFormat = "2006-01-02"
