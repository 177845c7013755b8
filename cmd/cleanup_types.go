package cmd

// CleanupConfig holds the run-mode settings that are not action inputs
type CleanupConfig struct {
	// SubscriptionURL is the subscription API root
	SubscriptionURL string

	DryRun      bool
	Yes         bool
	Interactive bool
}
