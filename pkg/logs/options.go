package logs

type LogOption interface {
	apply(*logOptions)
}

type logOptions struct {
	withNotifier bool
	targets      []string
}

type withNotifierOption struct{}
type withNotifyTargetOption struct {
	targets []string
}

func (o withNotifierOption) apply(opts *logOptions) {
	opts.withNotifier = true
}
func (o withNotifyTargetOption) apply(opts *logOptions) {
	opts.withNotifier = true
	opts.targets = append(opts.targets, o.targets...)
}

// WithNotifier pushes the log event to every notifier registered for
// its level.
func WithNotifier() LogOption {
	return withNotifierOption{}
}

// WithNotifyTarget pushes the log event only to the named notifiers.
func WithNotifyTarget(targets ...string) LogOption {
	return withNotifyTargetOption{targets: targets}
}
