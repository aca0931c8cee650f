package stdlib

import (
	"time"

	"github.com/cwbudde/go-cel/internal/value"
)

func timeOf(t value.TimestampValue) time.Time { return time.Time(t) }

func durationOf(d value.DurationValue) time.Duration { return time.Duration(d) }
