package notification

// Trigger names what woke the dispatcher.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule" // daily cron job
	TriggerWakeup   Trigger = "wakeup"   // periodic wake-up job
	TriggerManual   Trigger = "manual"   // admin command or HTTP request
	TriggerPush     Trigger = "push"     // push event without payload
	TriggerStartup  Trigger = "startup"  // catch-up run when the process starts
)

// Outcome is how a dispatch cycle ended.
type Outcome string

const (
	OutcomeDispatched      Outcome = "dispatched"
	OutcomeAlreadyNotified Outcome = "already_notified"
	OutcomeLostRace        Outcome = "lost_race" // another process wrote the marker first
	OutcomeAborted         Outcome = "aborted"   // marker store failed, nothing was sent
)
