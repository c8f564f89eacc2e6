package domain

// YearlyAverages maps each field to its mean over the months where it is set.
// Fields set in no month are absent.
type YearlyAverages map[Field]float64

// Get returns the average for f, or nil if no month has a value.
func (y YearlyAverages) Get(f Field) *float64 {
	v, ok := y[f]
	if !ok {
		return nil
	}
	return &v
}

// ComputeYearlyAverages averages climate fields, Radiation and ETo.
func ComputeYearlyAverages(records []MonthlyRecord) YearlyAverages {
	sums := make(map[Field]float64)
	counts := make(map[Field]int)
	add := func(f Field, p *float64) {
		if p == nil || !finite(*p) {
			return
		}
		sums[f] += *p
		counts[f]++
	}

	for _, rec := range records {
		if rec.Climate != nil {
			for _, f := range rec.Climate.Fields() {
				add(f, rec.Climate.Value(f))
			}
		}
		add(FieldRadiation, rec.Radiation)
		add(FieldETo, rec.ETo)
	}

	avg := make(YearlyAverages, len(sums))
	for f, sum := range sums {
		avg[f] = sum / float64(counts[f])
	}
	return avg
}
