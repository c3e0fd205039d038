// Package engine implements the suspend/resume session core. A flow is
// ordinary linear Go code running in its own goroutine; every
// EmitAndWait hands one Command to the host and parks the flow until
// the host answers with a Payload. The suspension point is an
// inspectable session state, so illegal resumes are rejected instead of
// corrupting the flow.
//
// Scheduling is strictly cooperative: at most one suspension is
// outstanding per session, and control alternates between exactly one
// host caller and the flow goroutine. There is no parallelism inside a
// session.
package engine
