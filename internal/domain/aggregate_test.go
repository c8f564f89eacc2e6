package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	series := DailySeries{
		"20230101": {VarTempMin: 10, VarTempMax: 20, VarHumidity: 60, VarWind: 2, VarShortwave: 15, VarETo: 3},
		"20230102": {VarTempMin: 12, VarTempMax: 24},
		"20240131": {VarTempMin: 14, VarHumidity: 80, "pressure": 101},
		"20230715": {VarWind: 4},
	}

	records, err := Aggregate(series)
	require.NoError(t, err)

	jan, ok := records[0].Climate.(FullMinMax)
	require.True(t, ok)
	assert.Equal(t, time.January, records[0].Month)
	assert.InDelta(t, 12, *jan.TempMin, 1e-12, "years share a bucket")
	assert.InDelta(t, 22, *jan.TempMax, 1e-12)
	assert.InDelta(t, 70, *jan.Humidity, 1e-12)
	assert.InDelta(t, 2, *jan.Wind, 1e-12)
	assert.Nil(t, jan.Sunshine)
	assert.InDelta(t, 15, *records[0].Provided.Radiation, 1e-12)
	assert.InDelta(t, 3, *records[0].Provided.ETo, 1e-12)

	jul := records[6].Climate.(FullMinMax)
	assert.Nil(t, jul.TempMin)
	assert.InDelta(t, 4, *jul.Wind, 1e-12)
}

func TestAggregate_EmptyMonthsStayEmpty(t *testing.T) {
	records, err := Aggregate(DailySeries{})
	require.NoError(t, err)

	for i, rec := range records {
		assert.Equal(t, time.Month(i+1), rec.Month)
		assert.False(t, HasAnyValue(rec.Climate), "month %d", i+1)
		assert.Nil(t, rec.Provided.ETo)
		assert.Nil(t, rec.Provided.Radiation)
	}

	records, err = Aggregate(nil)
	require.NoError(t, err)
	assert.Nil(t, records[3].Climate.Value(FieldTempMin))
}

func TestAggregate_SkipsNonFinite(t *testing.T) {
	records, err := Aggregate(DailySeries{
		"20230301": {VarTempMin: 5},
		"20230302": {VarTempMin: math.NaN()},
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, *records[2].Climate.Value(FieldTempMin))
}

func TestAggregate_InvalidDate(t *testing.T) {
	for _, key := range []string{"2023-01-01", "20231301", "yesterday", "2023011"} {
		_, err := Aggregate(DailySeries{key: {VarTempMin: 1}})
		assert.Error(t, err, key)
	}
}

func TestAggregate_MergeOrderIndependent(t *testing.T) {
	a := DailySeries{"20230101": {VarTempMin: 1}, "20230201": {VarTempMax: 9}}
	b := DailySeries{"20240101": {VarTempMin: 3}, "20230201": {VarHumidity: 50}}

	ab, err := Aggregate(a.Merge(b))
	require.NoError(t, err)
	ba, err := Aggregate(b.Merge(a))
	require.NoError(t, err)

	if diff := cmp.Diff(ab, ba); diff != "" {
		t.Errorf("merge order changed aggregation (-ab +ba):\n%s", diff)
	}
}

func TestDailySeries_Merge(t *testing.T) {
	base := DailySeries{"20230101": {VarTempMin: 1, VarTempMax: 10}}
	other := DailySeries{
		"20230101": {VarTempMin: 99, VarWind: 2},
		"20230102": {VarTempMin: 3},
	}

	merged := base.Merge(other)

	expected := DailySeries{
		"20230101": {VarTempMin: 1, VarTempMax: 10, VarWind: 2},
		"20230102": {VarTempMin: 3},
	}
	if diff := cmp.Diff(expected, merged); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, base["20230101"], 2, "receiver is not modified")
	assert.Equal(t, []string{"20230101", "20230102"}, merged.Dates())
}

func TestFetchWindow(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		w, err := ParseFetchWindow("20220301", "20240215")
		require.NoError(t, err)
		assert.Equal(t, "20220301-20240215", w.String())
	})

	t.Run("reversed", func(t *testing.T) {
		_, err := ParseFetchWindow("20240101", "20230101")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseFetchWindow("2024", "20240101")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("split by year", func(t *testing.T) {
		w, err := ParseFetchWindow("20221115", "20240110")
		require.NoError(t, err)

		parts := w.SplitByYear()

		require.Len(t, parts, 3)
		assert.Equal(t, "20221115-20221231", parts[0].String())
		assert.Equal(t, "20230101-20231231", parts[1].String())
		assert.Equal(t, "20240101-20240110", parts[2].String())
	})

	t.Run("single year", func(t *testing.T) {
		w, err := ParseFetchWindow("20230101", "20231231")
		require.NoError(t, err)
		assert.Len(t, w.SplitByYear(), 1)
	})
}
