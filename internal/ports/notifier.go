package ports

// Notifier delivers desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify shows a notification, with an audible alert when sound is true.
	Notify(title, message string, sound bool) error
}
