package oscillator_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOscillator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Oscillator Suite")
}
