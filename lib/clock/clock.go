package clock

import "time"

const layout = "2006-01-02T15:04:05Z"

func Now() string {
	return time.Now().UTC().Format(layout)
}

// Parse reads back a timestamp produced by Now.
func Parse(s string) (time.Time, error) {
	return time.Parse(layout, s)
}
