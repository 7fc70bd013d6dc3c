package ports

type TickMetrics interface {
	RecordTick(drain int, onset bool)
	RecordRemedy()
	RecordConflict()
	RecordFailure()
}
