package hub

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"homesense/pkg/db"
	"homesense/pkg/hub/mocks"
)

func GetMockHubWithMemorySqliteDialector(t *testing.T, useMockIngest, useMockQuery, useMockStats bool) (
	*gomock.Controller,
	*Hub,
	*mocks.MockIIngest,
	*mocks.MockIQuery,
	*mocks.MockIStats,
) {
	ctrl := gomock.NewController(t)

	mockIngest := mocks.NewMockIIngest(ctrl)
	mockQuery := mocks.NewMockIQuery(ctrl)
	mockStats := mocks.NewMockIStats(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	hubInstance := &Hub{Db: *dbInstance}

	ingestService := hubInstance.GetIIngest()
	if useMockIngest {
		ingestService = mockIngest
	}

	queryService := hubInstance.GetIQuery()
	if useMockQuery {
		queryService = mockQuery
	}

	statsService := hubInstance.GetIStats()
	if useMockStats {
		statsService = mockStats
	}

	hubInstance.WithServices(ServiceOpts{
		Ingest: ingestService,
		Query:  queryService,
		Stats:  statsService,
	})

	return ctrl, hubInstance, mockIngest, mockQuery, mockStats
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
