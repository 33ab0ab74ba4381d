// Package codexi provides a single-user ledger engine: an ordered history of
// dated monetary operations from which balances, summaries and filtered views
// are derived.
//
// The core functionalities include:
//   - Ledger Management: appending, deleting and anchoring operations while
//     keeping the history sorted and consistent with its anchors (initial
//     amount, adjustments and period closings).
//   - Period Closing: archiving every operation up to a date and replacing
//     them with a single carried-forward balance.
//   - Reports: balances filtered by flexible dates, searches with a running
//     balance, and a resume of the ledger content.
//   - Data Persistence: encoding the ledger in a human-readable JSONL file,
//     archives, snapshots, CSV and YAML import/export and ZIP backups.
//
// This package serves as the foundational logic for the `codexi` command-line
// tool. It never reads the environment: the data directory is always passed
// explicitly.
package codexi
