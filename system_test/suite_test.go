// Package system_test implements the spec-style end-to-end scenario
// suite from §8's "Concrete end-to-end scenarios", using
// github.com/onsi/ginkgo/v2 and github.com/onsi/gomega, matching the
// teacher's sim_suite_test.go / ginkgo.RunSpecs convention: these
// scenarios span memctrl, hart, dma, and video together, which fits a
// spec-style narrative better than table-driven testify assertions.
package system_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSystem(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "System Suite")
}
