package xrand

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var trackingIDPattern = regexp.MustCompile(`^TRX-\d+-\d{5}$`)

func TestTrackingIDFormat(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := TrackingID()
		require.Regexp(t, trackingIDPattern, id)

		parts := strings.Split(id, "-")
		require.Len(t, parts, 3)

		millis, err := strconv.ParseInt(parts[1], 10, 64)
		require.NoError(t, err)

		now := time.Now().UnixMilli()
		assert.InDelta(t, now, millis, float64(time.Minute.Milliseconds()))
	})
}
