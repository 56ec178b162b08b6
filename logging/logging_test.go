package logging

import "testing"

func TestNewBuildsProductionAndDevelopmentLoggers(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		log, err := New(verbose)
		if err != nil {
			t.Fatalf("New(%v): %v", verbose, err)
		}
		if log == nil {
			t.Fatalf("New(%v) returned nil logger", verbose)
		}
		log.Sync()
	}
}
