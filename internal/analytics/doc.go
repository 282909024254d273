// Package analytics derives streaks, completion statistics and calendar
// heatmaps from date-stamped check-ins.
//
// Every function is a pure computation over data the caller has already
// loaded. Dates are calendar days normalized with utils.DateOf, and "today"
// is always passed in explicitly so results never depend on the wall clock.
// Nothing here is cached: derived values are recomputed on every call.
package analytics
