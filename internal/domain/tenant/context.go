package tenant

import "context"

type namespaceKey struct{}

// WithNamespace binds a resolved namespace to the request context
func WithNamespace(ctx context.Context, ns Namespace) context.Context {
	return context.WithValue(ctx, namespaceKey{}, ns)
}

// NamespaceFromContext returns the namespace bound to ctx, if any
func NamespaceFromContext(ctx context.Context) (Namespace, bool) {
	ns, ok := ctx.Value(namespaceKey{}).(Namespace)
	if !ok || ns.IsZero() {
		return Namespace{}, false
	}
	return ns, true
}
