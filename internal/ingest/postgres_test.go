package ingest

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/rowgroup"
)

func TestFromPostgres_BuildsRowGroupFromQueryResult(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	rows := pgxmock.NewRows([]string{"time", "region", "counter"}).
		AddRow(int64(1), "west", float64(100)).
		AddRow(int64(2), "east", float64(200))
	mockPool.ExpectQuery("SELECT \\* FROM metrics").WillReturnRows(rows)

	schema := map[string]ColumnSchema{
		"time":    {Role: rowgroup.ColumnRoleTime},
		"region":  {Role: rowgroup.ColumnRoleTag},
		"counter": {Role: rowgroup.ColumnRoleField, Numeric: true},
	}

	group, err := FromPostgres(context.Background(), mockPool, "metrics", schema, rowgroup.DefaultEngineConfig())
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())

	assert.Equal(t, 2, group.Rows())
	result := group.ReadFilter([]string{"region", "counter"}, nil)
	assert.Equal(t, []string{"west", "east"}, valuesAsStrings(result.Values[0]))
	assert.Equal(t, []string{"100", "200"}, valuesAsStrings(result.Values[1]))
}

func TestFromPostgres_SkipsColumnsWithNoSchemaEntry(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	rows := pgxmock.NewRows([]string{"time", "unmapped"}).
		AddRow(int64(1), "ignored")
	mockPool.ExpectQuery("SELECT \\* FROM metrics").WillReturnRows(rows)

	schema := map[string]ColumnSchema{
		"time": {Role: rowgroup.ColumnRoleTime},
	}

	group, err := FromPostgres(context.Background(), mockPool, "metrics", schema, rowgroup.DefaultEngineConfig())
	require.NoError(t, err)
	assert.NotContains(t, group.ColumnNames(), "unmapped")
}

func valuesAsStrings(vals []rowgroup.Value) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
