package backend

// Kind identifies one measured quantity in a diagnostic report.
//
// The closed set below covers everything the BSD and GNU time commands emit;
// several items are unmaintained per getrusage(2) and usually read zero, so
// all-zero series are skipped at display time. Lines with an unrecognized
// label map to Unknown kinds and are carried through untouched.
type Kind struct {
	id    kindID
	label string
}

type kindID int

const (
	kindUnknown kindID = iota
	kindExitStatus
	kindWallTime
	kindUserTime
	kindSysTime
	kindCPUPercent
	kindAvgSharedBytes
	kindAvgDataBytes
	kindAvgStackBytes
	kindAvgTotalBytes
	kindMaxResidentBytes
	kindAvgResidentBytes
	kindMajorPageFaults
	kindMinorPageFaults
	kindVoluntaryCtxSwitches
	kindInvoluntaryCtxSwitches
	kindSwaps
	kindBlockInputs
	kindBlockOutputs
	kindMessagesSent
	kindMessagesReceived
	kindSignalsReceived
	kindPageSizeBytes
	kindInstructionsRetired
	kindCyclesElapsed
	kindPeakMemoryBytes
)

var (
	ExitStatus             = Kind{id: kindExitStatus}
	WallTime               = Kind{id: kindWallTime}
	UserTime               = Kind{id: kindUserTime}
	SysTime                = Kind{id: kindSysTime}
	CPUPercent             = Kind{id: kindCPUPercent}
	AvgSharedBytes         = Kind{id: kindAvgSharedBytes}
	AvgDataBytes           = Kind{id: kindAvgDataBytes}
	AvgStackBytes          = Kind{id: kindAvgStackBytes}
	AvgTotalBytes          = Kind{id: kindAvgTotalBytes}
	MaxResidentBytes       = Kind{id: kindMaxResidentBytes}
	AvgResidentBytes       = Kind{id: kindAvgResidentBytes}
	MajorPageFaults        = Kind{id: kindMajorPageFaults}
	MinorPageFaults        = Kind{id: kindMinorPageFaults}
	VoluntaryCtxSwitches   = Kind{id: kindVoluntaryCtxSwitches}
	InvoluntaryCtxSwitches = Kind{id: kindInvoluntaryCtxSwitches}
	Swaps                  = Kind{id: kindSwaps}
	BlockInputs            = Kind{id: kindBlockInputs}
	BlockOutputs           = Kind{id: kindBlockOutputs}
	MessagesSent           = Kind{id: kindMessagesSent}
	MessagesReceived       = Kind{id: kindMessagesReceived}
	SignalsReceived        = Kind{id: kindSignalsReceived}
	PageSizeBytes          = Kind{id: kindPageSizeBytes}
	InstructionsRetired    = Kind{id: kindInstructionsRetired}
	CyclesElapsed          = Kind{id: kindCyclesElapsed}
	PeakMemoryBytes        = Kind{id: kindPeakMemoryBytes}
)

// Unknown returns a kind for a diagnostic label no grammar recognizes.
func Unknown(label string) Kind {
	return Kind{id: kindUnknown, label: label}
}

func (k Kind) IsUnknown() bool { return k.id == kindUnknown }

var kindNames = map[kindID]string{
	kindExitStatus:             "Exit status",
	kindWallTime:               "Elapsed (wall clock) time",
	kindUserTime:               "User time",
	kindSysTime:                "System time",
	kindCPUPercent:             "Percent of CPU this job got",
	kindAvgSharedBytes:         "Average shared text size",
	kindAvgDataBytes:           "Average unshared data size",
	kindAvgStackBytes:          "Average stack size",
	kindAvgTotalBytes:          "Average total size",
	kindMaxResidentBytes:       "Maximum resident set size",
	kindAvgResidentBytes:       "Average resident set size",
	kindMajorPageFaults:        "Requiring I/O page faults",
	kindMinorPageFaults:        "Reclaiming a frame page faults",
	kindVoluntaryCtxSwitches:   "Voluntary context switches",
	kindInvoluntaryCtxSwitches: "Involuntary context switches",
	kindSwaps:                  "Swaps",
	kindBlockInputs:            "Block by file system inputs",
	kindBlockOutputs:           "Block by file system outputs",
	kindMessagesSent:           "Socket messages sent",
	kindMessagesReceived:       "Socket messages received",
	kindSignalsReceived:        "Signals received",
	kindPageSizeBytes:          "Page size",
	kindInstructionsRetired:    "Instructions retired",
	kindCyclesElapsed:          "Cycles elapsed",
	kindPeakMemoryBytes:        "Peak memory footprint",
}

// Name returns the human-readable label used in the final report.
func (k Kind) Name() string {
	if k.id == kindUnknown {
		return k.label
	}
	return kindNames[k.id]
}

// TimeValued reports whether the value is a duration in seconds.
func (k Kind) TimeValued() bool {
	switch k.id {
	case kindWallTime, kindUserTime, kindSysTime:
		return true
	}
	return false
}

// ByteValued reports whether the value is a memory size in bytes.
func (k Kind) ByteValued() bool {
	switch k.id {
	case kindAvgSharedBytes, kindAvgDataBytes, kindAvgStackBytes,
		kindAvgTotalBytes, kindMaxResidentBytes, kindAvgResidentBytes,
		kindPeakMemoryBytes:
		return true
	}
	return false
}

// LoopScaled reports whether the value aggregates over inner loop
// iterations and must be divided by the loop count for display. Durations
// and event counts accumulate; sizes, rates and the exit status do not.
func (k Kind) LoopScaled() bool {
	switch k.id {
	case kindWallTime, kindUserTime, kindSysTime,
		kindMajorPageFaults, kindMinorPageFaults,
		kindVoluntaryCtxSwitches, kindInvoluntaryCtxSwitches,
		kindSwaps, kindBlockInputs, kindBlockOutputs,
		kindMessagesSent, kindMessagesReceived, kindSignalsReceived,
		kindInstructionsRetired, kindCyclesElapsed:
		return true
	}
	return false
}

// KnownKinds returns every closed-set kind in report display order.
func KnownKinds() []Kind {
	return []Kind{
		ExitStatus,
		WallTime,
		UserTime,
		SysTime,
		CPUPercent,
		AvgSharedBytes,
		AvgDataBytes,
		AvgStackBytes,
		AvgTotalBytes,
		MaxResidentBytes,
		AvgResidentBytes,
		MajorPageFaults,
		MinorPageFaults,
		VoluntaryCtxSwitches,
		InvoluntaryCtxSwitches,
		Swaps,
		BlockInputs,
		BlockOutputs,
		MessagesSent,
		MessagesReceived,
		SignalsReceived,
		PageSizeBytes,
		InstructionsRetired,
		CyclesElapsed,
		PeakMemoryBytes,
	}
}
