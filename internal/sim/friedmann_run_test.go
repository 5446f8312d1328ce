package sim

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/physics"
)

var benchmark = physics.Densities{Matter: 2.53e-27, Radiation: 5.60e-31, DarkEnergy: 6.78e-27}

func runFriedmann(ctx context.Context, d physics.Densities, cfg Config) (*Result, error) {
	return New(physics.NewFriedmann(d), integrators.NewEuler()).Run(ctx, cfg)
}

var _ = Describe("Simulator with the Friedmann model", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
	})

	Context("with the benchmark densities", func() {
		var result *Result

		BeforeEach(func() {
			var err error
			result, err = runFriedmann(context.Background(), benchmark, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records 140 backward and 100 forward samples", func() {
			Expect(result.BackwardSteps).To(Equal(140))
			Expect(result.ForwardSteps).To(Equal(100))
			Expect(result.Samples).To(HaveLen(240))
		})

		It("starts just above the floor in the past", func() {
			first := result.Samples[0]
			Expect(first.T).To(Equal(-1.39e10))
			Expect(first.A).To(BeNumerically(">", cfg.MinScaleFactor))
			Expect(first.A).To(BeNumerically("~", 0.0046457, 1e-6))
		})

		It("is strictly increasing in time", func() {
			for i := 1; i < len(result.Samples); i++ {
				Expect(result.Samples[i].T).To(BeNumerically(">", result.Samples[i-1].T))
			}
		})

		It("contains the present exactly once with a = 1", func() {
			count := 0
			for _, s := range result.Samples {
				if s.T == 0 {
					count++
					Expect(s.A).To(Equal(1.0))
				}
			}
			Expect(count).To(Equal(1))
			Expect(result.Samples[result.Present()]).To(Equal(dynamo.Sample{T: 0, A: 1}))
		})

		It("keeps every backward sample above the floor", func() {
			for _, s := range result.Samples[:result.BackwardSteps] {
				Expect(s.A).To(BeNumerically(">", cfg.MinScaleFactor))
			}
		})

		It("starts the forward pass one step after the present", func() {
			Expect(result.Samples[result.Present()+1].T).To(Equal(cfg.Dt))
		})

		It("ends at the first step at or after the horizon", func() {
			last := result.Samples[len(result.Samples)-1]
			Expect(last.T).To(BeNumerically(">=", cfg.Horizon))
			Expect(last.T - cfg.Dt).To(BeNumerically("<", cfg.Horizon))
			Expect(last.A).To(BeNumerically("~", 1.933, 1e-3))
		})

		It("is deterministic", func() {
			again, err := runFriedmann(context.Background(), benchmark, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Samples).To(Equal(result.Samples))
		})

		It("produces identical output with concurrent passes", func() {
			cfg.Parallel = true
			parallel, err := runFriedmann(context.Background(), benchmark, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(parallel.Samples).To(Equal(result.Samples))
			Expect(parallel.BackwardSteps).To(Equal(result.BackwardSteps))
		})
	})

	Context("with zero densities", func() {
		It("coasts linearly and still reaches the floor", func() {
			result, err := runFriedmann(context.Background(), physics.Densities{}, cfg)
			Expect(err).NotTo(HaveOccurred())

			// a = 1 - n*H*dt stays above 1e-3 for n = 0..138
			Expect(result.BackwardSteps).To(Equal(139))
			Expect(result.Samples[0].T).To(Equal(-1.38e10))
			Expect(result.Samples[0].A).To(BeNumerically("~", 0.0064, 1e-9))

			last := result.Samples[len(result.Samples)-1]
			Expect(last.A).To(BeNumerically("~", 1.72, 1e-9))
		})
	})

	DescribeTable("positive densities terminate above the floor",
		func(d physics.Densities) {
			result, err := runFriedmann(context.Background(), d, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BackwardSteps).To(BeNumerically(">", 0))
			for _, s := range result.Samples[:result.BackwardSteps] {
				Expect(s.A).To(BeNumerically(">", cfg.MinScaleFactor))
			}
			Expect(result.Samples[len(result.Samples)-1].T).To(BeNumerically(">=", cfg.Horizon))
		},
		Entry("matter only", physics.Densities{Matter: 9.31e-27}),
		Entry("radiation only", physics.Densities{Radiation: 9.31e-27}),
		Entry("dark energy only", physics.Densities{DarkEnergy: 9.31e-27}),
		Entry("benchmark", benchmark),
		Entry("dense matter", physics.Densities{Matter: 1e-25, Radiation: 1e-28, DarkEnergy: 1e-27}),
	)

	// Expected samples are exact float64 values of the reference trajectories.
	DescribeTable("reproduces reference trajectories bit for bit",
		func(d physics.Densities, total, backward int, first, mid, midFuture, last dynamo.Sample) {
			result, err := runFriedmann(context.Background(), d, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Samples).To(HaveLen(total))
			Expect(result.BackwardSteps).To(Equal(backward))

			Expect(result.Samples[0]).To(Equal(first))
			Expect(result.Samples[70]).To(Equal(mid))
			Expect(result.Samples[180]).To(Equal(midFuture))
			Expect(result.Samples[total-1]).To(Equal(last))
		},
		Entry("benchmark", benchmark, 240, 140,
			dynamo.Sample{T: -1.39e10, A: 0.004645747186113422},
			dynamo.Sample{T: -6.9e9, A: 0.554153473982833},
			dynamo.Sample{T: 4.1e9, A: 1.324318240518405},
			dynamo.Sample{T: 1e10, A: 1.9329905593732448}),
		Entry("matter only", physics.Densities{Matter: 1e-26}, 193, 93,
			dynamo.Sample{T: -9.2e9, A: 0.030739687557819587},
			dynamo.Sample{T: -2.2e9, A: 0.8344570852976476},
			dynamo.Sample{T: 8.8e9, A: 1.5559450481135808},
			dynamo.Sample{T: 1e10, A: 1.6229500512435446}),
		Entry("no dark energy", physics.Densities{Matter: 2.53e-27, Radiation: 5.60e-31}, 215, 115,
			dynamo.Sample{T: -1.14e10, A: 0.022933764358378295},
			dynamo.Sample{T: -4.4e9, A: 0.6747445969900577},
			dynamo.Sample{T: 6.6e9, A: 1.4635108646950967},
			dynamo.Sample{T: 1e10, A: 1.6957965205200434}),
		Entry("empty", physics.Densities{}, 239, 139,
			dynamo.Sample{T: -1.38e10, A: 0.0064000000000014705},
			dynamo.Sample{T: -6.8e9, A: 0.5104000000000011},
			dynamo.Sample{T: 4.2e9, A: 1.302400000000004},
			dynamo.Sample{T: 1e10, A: 1.7200000000000095}),
	)

	Context("when dark energy makes the backward pass expand", func() {
		runaway := physics.Densities{DarkEnergy: 1e-20}

		It("fails with a non-convergence error once the cap is hit", func() {
			cfg.MaxSteps = 50
			result, err := runFriedmann(context.Background(), runaway, cfg)
			Expect(result).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrNonConvergent)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Pass).To(Equal(dynamo.Backward))
			Expect(simErr.Step).To(Equal(50))
			Expect(simErr.State[0]).To(BeNumerically(">", 1.0))
		})

		It("reports the overflow as an invalid state under the default cap", func() {
			_, err := runFriedmann(context.Background(), runaway, cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("still hits the cap when state validation is off", func() {
			cfg.ValidateState = false
			cfg.MaxSteps = 1000
			_, err := runFriedmann(context.Background(), runaway, cfg)
			Expect(errors.Is(err, dynamo.ErrNonConvergent)).To(BeTrue())
		})

		It("fails the same way with concurrent passes", func() {
			cfg.MaxSteps = 50
			cfg.Parallel = true
			_, err := runFriedmann(context.Background(), runaway, cfg)
			Expect(errors.Is(err, dynamo.ErrNonConvergent)).To(BeTrue())
		})
	})

	Context("when the context is canceled", func() {
		It("stops with a cancellation error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := runFriedmann(ctx, benchmark, cfg)
			Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})
