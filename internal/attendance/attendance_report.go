package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go-colaboradores/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// ReportGenerationKey is bumped whenever a record is written; cached
	// reports of older generations are simply never read again.
	ReportGenerationKey = "attendance:report:gen"
	reportCacheTTL      = 10 * time.Minute

	UserNotFoundName     = "User not found"
	LocationNotFoundName = "Location not found"
)

// BumpReportGeneration invalidates every cached report. A nil client is a no-op.
func BumpReportGeneration(ctx context.Context, rdb *redis.Client, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Incr(ctx, ReportGenerationKey).Err(); err != nil {
		contextutil.GetLogger(ctx, logger).Error("failed to bump report generation", zap.Error(err))
	}
}

func (s *service) Records(ctx context.Context, q RecordsQuery) ([]RecordResponse, error) {
	from, to, err := s.cfg.Calendar.Range(q.Day, q.Month, s.cfg.Now())
	if err != nil {
		return nil, err
	}

	rows, err := s.deps.Repo.FindInRange(ctx, RecordFilter{
		From:       from,
		To:         to,
		UserID:     q.UserID,
		LocationID: q.LocationID,
		Type:       q.Type,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]RecordResponse, len(rows))
	for i, r := range rows {
		resp[i] = toRecordResponse(r)
	}
	return resp, nil
}

func (s *service) reportGeneration(ctx context.Context) (int64, bool) {
	if s.deps.Redis == nil {
		return 0, false
	}
	v, err := s.deps.Redis.Get(ctx, ReportGenerationKey).Result()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

func reportCacheKey(gen int64, from, to time.Time, q ReportQuery) string {
	return fmt.Sprintf("attendance:report:%d:%d:%d:%s:%s", gen, from.Unix(), to.Unix(), q.UserID, q.Type)
}

// Report groups records by user and local day.
func (s *service) Report(ctx context.Context, q ReportQuery) ([]ReportRow, error) {
	from, to, err := s.cfg.Calendar.Range(q.Day, q.Month, s.cfg.Now())
	if err != nil {
		return nil, err
	}

	gen, cacheable := s.reportGeneration(ctx)
	key := reportCacheKey(gen, from, to, q)
	if cacheable {
		if cached, err := s.deps.Redis.Get(ctx, key).Result(); err == nil {
			var rows []ReportRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.buildReport(ctx, from, to, q)
	})
	if err != nil {
		return nil, err
	}
	rows := v.([]ReportRow)

	if cacheable {
		if data, err := json.Marshal(rows); err == nil {
			s.deps.Redis.Set(ctx, key, data, reportCacheTTL)
		}
	}
	return rows, nil
}

func (s *service) buildReport(ctx context.Context, from, to time.Time, q ReportQuery) ([]ReportRow, error) {
	records, err := s.deps.Repo.FindInRange(ctx, RecordFilter{From: from, To: to, UserID: q.UserID, Type: q.Type})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []ReportRow{}, nil
	}

	userNames, locationNames, err := s.names(ctx, records)
	if err != nil {
		return nil, err
	}

	return groupReport(records, s.cfg.Calendar, userNames, locationNames), nil
}

func (s *service) names(ctx context.Context, records []AttendanceRecord) (map[string]string, map[string]string, error) {
	userSet := map[string]struct{}{}
	locSet := map[string]struct{}{}
	for _, r := range records {
		userSet[r.UserID.String()] = struct{}{}
		locSet[r.LocationID.String()] = struct{}{}
	}

	users, err := s.deps.Users.FindByIDs(ctx, keys(userSet))
	if err != nil {
		return nil, nil, err
	}
	locs, err := s.deps.Locations.FindByIDs(ctx, keys(locSet))
	if err != nil {
		return nil, nil, err
	}

	userNames := make(map[string]string, len(users))
	for _, u := range users {
		userNames[u.ID.String()] = u.Name
	}
	locationNames := make(map[string]string, len(locs))
	for _, l := range locs {
		locationNames[l.ID.String()] = l.Name
	}
	return userNames, locationNames, nil
}

// groupReport builds one row per user and local day. Each slot keeps the
// earliest record of its kind; deleted users and locations get a fallback name.
func groupReport(records []AttendanceRecord, cal Calendar, userNames, locationNames map[string]string) []ReportRow {
	sorted := make([]AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RecordedAt.Before(sorted[j].RecordedAt) })

	nameOr := func(m map[string]string, id, fallback string) string {
		if n, ok := m[id]; ok && n != "" {
			return n
		}
		return fallback
	}

	byKey := map[string]*ReportRow{}
	var order []string
	for _, r := range sorted {
		userID := r.UserID.String()
		date := cal.DateKey(r.RecordedAt)
		key := userID + "|" + date
		locName := nameOr(locationNames, r.LocationID.String(), LocationNotFoundName)

		row, ok := byKey[key]
		if !ok {
			row = &ReportRow{
				UserID:       userID,
				UserName:     nameOr(userNames, userID, UserNotFoundName),
				Date:         date,
				LocationName: locName,
			}
			byKey[key] = row
			order = append(order, key)
		}

		slot := &ReportSlot{
			Time:         r.RecordedAt.UTC().Format(time.RFC3339),
			LocalTime:    r.RecordedAt.In(cal.loc()).Format("15:04"),
			LocationName: locName,
		}
		switch {
		case r.Type == TypeEntrada && row.Entrada == nil:
			slot.Punctuality = cal.Punctuality(r.RecordedAt)
			row.Entrada = slot
		case r.Type == TypeComida && r.Subtype == SubtypeInicio && row.ComidaInicio == nil:
			row.ComidaInicio = slot
		case r.Type == TypeComida && r.Subtype == SubtypeFin && row.ComidaFin == nil:
			row.ComidaFin = slot
		case r.Type == TypeSalida && row.Salida == nil:
			row.Salida = slot
		}
	}

	rows := make([]ReportRow, 0, len(order))
	for _, k := range order {
		rows = append(rows, *byKey[k])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].UserName < rows[j].UserName
	})
	return rows
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
