// Package errors provides structured errors for the session tracker.
//
// Errors carry a Code, a user-facing Message, an optional Cause and
// free-form metadata:
//
//	err := errors.NotFound("session snapshot not found").
//	    WithMeta("storage_key", key)
//
// Wrapping keeps the code of the wrapped error unless a new one is given:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to persist session")
//	}
//
// # Where errors occur
//
// The reducer never returns errors. Actions that reference unknown
// characters, groups, obstacles or templates are silent no-ops, and numeric
// boundaries are clamped where they are computed.
//
// Errors only surface at the edges:
//   - snapshot decoding rejects malformed documents with InvalidArgument,
//     carrying schema or field details in the metadata
//   - repositories return NotFound for an absent snapshot and wrap driver
//     failures as Unavailable or DataLoss
//   - configuration validation uses the ValidationBuilder
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("storage_key", cfg.StorageKey, vb)
//	errors.ValidateEnum("store", cfg.Store, []string{"memory", "redis", "sqlite"}, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
