package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/autocenter-backend/pkg/logger"
)

func TestQueryLoggerEmitsOnlySlowAndFailed(t *testing.T) {
	buf := &bytes.Buffer{}
	q := newQueryLogger(logger.New(logger.Options{ServiceName: "test", Output: buf}), 50*time.Millisecond)
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT * FROM orders", 3 }

	q.Trace(ctx, time.Now(), fc, nil)
	require.Zero(t, buf.Len(), "fast successful query must stay quiet")

	q.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	require.Zero(t, buf.Len(), "not found is not a failure")

	q.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	require.Contains(t, buf.String(), "db.slow_query")
	require.Contains(t, buf.String(), "SELECT * FROM orders")

	buf.Reset()
	q.Trace(ctx, time.Now(), fc, errors.New("deadlock detected"))
	require.True(t, strings.Contains(buf.String(), "db.query_failed"))

	buf.Reset()
	q.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), fc, errors.New("boom"))
	require.Zero(t, buf.Len())
}
