// Package domain implements the monthly reference evapotranspiration (ETo)
// engine.
//
// # Configuration
//
// [Settings] has six independent axes: method, temperature mode and the
// units of humidity, wind, sunshine and ETo. [Resolve] derives from it the
// required climate fields, the validation bounds and the unit labels. The
// shape of a monthly record follows the same settings through the sealed
// [Climate] variants built by [NewClimate].
//
// # Units
//
// Inputs are stored as entered. [ToStandardUnits] converts wind to m/s
// (km/day divided by 86.4) and sunshine to hours. Percent and fraction of
// sunshine use a nominal 12 hour day as base, not the astronomical day length.
//
// # Formulas
//
// Temperature-only settings use Hargreaves-Samani:
//
//	ETo = 0.0023·(Tmean + 17.8)·√TD·Ra·0.408
//
// TD is |Tmax − Tmin|, or 10 °C when only an average temperature is known.
//
// Full-climate-data settings use FAO-56 Penman-Monteith with soil heat flux
// set to zero and Rs from the Angström relation Rs = (0.25 + 0.5·n/N)·Ra.
//
// Ra and N come from the FAO-56 solar geometry at a mid-month day of year
// J = ⌊m·30.4 + 15⌋ for the 0-based month m. The sunset hour angle argument
// is clamped so polar night yields Ra = 0 and midnight sun yields N = 24.
//
// A month whose inputs are missing or not finite has no radiation and no ETo.
// Values in mm/period are mm/day multiplied by 30.
//
// # Daily Data
//
// [Aggregate] turns a YYYYMMDD keyed [DailySeries] into twelve monthly means
// regardless of year. Provider shortwave radiation and ETo are kept apart in
// [MonthlyRecord.Provided] and used only under [SourceProvider]. Daily sources
// carry no sunshine duration, so Penman-Monteith over aggregated data is
// unavailable under [SourceFormula].
//
// # Report IDs
//
// Report ids are UUID v5 values over the request id and station identity, so
// replaying a request yields the same id. See [ReportID].
package domain
