package commission

import (
	"context"
	"strconv"
)

// ReportCache stores rendered monthly reports. *redis.JSONCache satisfies it.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any) error         { return nil }
func (NopCache) DeletePrefix(context.Context, string) error     { return nil }

// ReportCachePrefix namespaces report keys: commission_report:<month>:<staff|all>.
const ReportCachePrefix = "commission_report"

func staffReportKey(month string, staffID uint) string {
	return month + ":" + strconv.FormatUint(uint64(staffID), 10)
}

func allStaffReportKey(month string) string {
	return month + ":all"
}

func monthKeyPrefix(month string) string {
	return month + ":"
}
