// Package careflow compiles declarative healthcare workflow documents (prior
// authorization, claims processing, appeals, credentialing) into validated
// workflow definitions consumed by an external runtime orchestrator.
//
// Compilation runs three stages:
//
//   - schema   – structural validation of the raw document
//   - convert  – mapping into typed definitions with defaults applied
//   - graph    – start step, reference, reachability and cycle analysis
//
// The Service façade in this package wires the stages with loading,
// logging, tracing and metrics:
//
//	srv := careflow.New()
//	out, err := srv.Load(ctx, "prior_auth.yaml", "jdoe")
//	if err == nil && out.Validation.IsValid {
//		publish(out.Definition)
//	}
package careflow
