// Package audit is the orchestration and scoring engine.
//
// Architecture overview:
//
//   - Result is the atomic output of one check: a title, a Status (pass,
//     warning or fail) and the message, explanation and fix shown to operators.
//   - A Check pairs a stable title with a Func. Checks are registered on a
//     Runner per Category (performance, security) in the order they are shown.
//   - Runner.Run executes a category's checks and always returns one result
//     per check. Errors and panics raised by a check are converted into a
//     warning for that check alone, so a report can always be produced.
//   - Score, Overall and Class turn result lists into 0-100 scores and the
//     good/medium/poor classes used by the report renderers.
package audit
