// Package tyflow computes what an operation looks like from the outside once
// a chain of interceptors has been wrapped around it.
//
// Interceptors run in declaration order on the way in (request path) and in
// reverse on the way out (response path). Each one either forwards to the
// next component or terminates with its own result, and may fail. Given the
// static facts of every interceptor and of the target operation, tyflow
// answers two questions without running anything:
//
//   - which parameters the operation's public signature must expose
//     (ResolveParameters), and
//   - which types can reach the caller (ResolveResponses).
//
// A typical caller builds one Pipeline per chain and resolves each wrapped
// operation against it:
//
//	p, err := tyflow.Build(interceptors)
//	if err != nil {
//		return err
//	}
//	for _, op := range operations {
//		params, err := tyflow.ResolveParameters(p, op)
//		...
//		responses, err := tyflow.ResolveResponses(p, op)
//		...
//	}
//
// Pipelines are immutable and may be resolved from many goroutines at once.
// Conditions that do not stop analysis, such as an interceptor whose
// applicability cannot be decided, are reported as ir.Warning values on the
// result sets.
package tyflow
