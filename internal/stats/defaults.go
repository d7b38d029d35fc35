package stats

func emptySnapshot() Snapshot {
	return Snapshot{
		Documents: DocumentStats{
			ByStatus: map[string]int{},
			ByFormat: map[string]int{},
		},
		Analyses: AnalysisStats{
			ByStatus:       map[string]int{},
			ByMode:         map[string]int{},
			FailuresByCode: map[string]int{},
		},
	}
}
