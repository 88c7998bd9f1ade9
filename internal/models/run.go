package models

import "time"

// PipelineRun describes one execution of the pipeline, for the ops API and
// the warehouse run log.
type PipelineRun struct {
	ID           string     `json:"id" bson:"id"`
	StartedAt    time.Time  `json:"startedAt" bson:"startedAt"`
	FinishedAt   time.Time  `json:"finishedAt" bson:"finishedAt"`
	SnapshotFile string     `json:"snapshotFile" bson:"snapshotFile"`
	RosterFile   string     `json:"rosterFile" bson:"rosterFile"`
	AuthRows     int        `json:"authRows" bson:"authRows"`
	SubRows      int        `json:"subscriptionRows" bson:"subscriptionRows"`
	ProfileRows  int        `json:"profileRows" bson:"profileRows"`
	GymRows      int        `json:"gymPreferenceRows" bson:"gymPreferenceRows"`
	AuditEntries int        `json:"auditEntries" bson:"auditEntries"`
	Summary      RunSummary `json:"summary" bson:"summary"`
	Published    bool       `json:"published" bson:"published"`
}
