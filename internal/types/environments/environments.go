// Package environments names the deployment tiers the process can run in.
// Configuration loading and logger behavior key off the active tier.
package environments

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

// Parse maps an APP_ENV value to a known environment. Empty input means a
// local run and defaults to Development; an unrecognized non-empty value is
// treated as Production so a typo in a deployed APP_ENV fails toward quiet
// structured logging rather than debug console output.
func Parse(s string) Environment {
	switch Environment(s) {
	case Production, Development, Staging, Test:
		return Environment(s)
	case "":
		return Development
	default:
		return Production
	}
}
