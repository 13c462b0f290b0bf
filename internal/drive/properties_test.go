package drive_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/diffdrive/internal/drive"
)

var _ = Describe("Model", func() {
	var m *drive.Model

	BeforeEach(func() {
		var err error
		m, err = drive.New(0.05, 0.2)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("signal generators", func() {
		It("drives 1m in 10s at 2 rad/s on both wheels", func() {
			p, err := m.DriveSignal(1.0, 10.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Left).To(HaveLen(int(math.Floor(10.0 / m.Dt()))))
			Expect(p.Right).To(HaveLen(p.Len()))
			Expect(p.Left[0]).To(BeNumerically("~", 2.0, 1e-12))
			Expect(p.Right[p.Len()-1]).To(BeNumerically("~", 2.0, 1e-12))
		})

		It("turns 90 degrees in 1s at pi rad/s", func() {
			p, err := m.TurnSignal(90, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Left[0]).To(BeNumerically("~", -3.1416, 1e-4))
			Expect(p.Right[0]).To(BeNumerically("~", 3.1416, 1e-4))
		})

		DescribeTable("reject non-positive durations",
			func(cmd drive.Command, args ...float64) {
				p, err := m.Signal(cmd, args...)
				Expect(err).To(MatchError(drive.ErrInvalidDuration))
				Expect(p.Left).To(BeNil())
			},
			Entry("drive", drive.CommandDrive, 1.0, 0.0),
			Entry("turn", drive.CommandTurn, 90.0, -1.0),
			Entry("arc", drive.CommandArc, 0.5, 90.0, 0.0),
		)
	})

	Describe("dispatch", func() {
		It("selects the generator by symbol", func() {
			for _, sym := range []string{"D", "T", "C"} {
				cmd, err := drive.ParseCommand(sym)
				Expect(err).NotTo(HaveOccurred())
				Expect(cmd.String()).To(Equal(sym))
			}
		})

		It("matches the direct generator output", func() {
			direct, err := m.ArcSignal(-0.3, 45, 2)
			Expect(err).NotTo(HaveOccurred())
			viaTable, err := m.Signal(drive.CommandArc, -0.3, 45, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(viaTable).To(Equal(direct))
		})

		It("rejects unknown symbols and wrong arity", func() {
			_, err := drive.ParseCommand("X")
			Expect(err).To(MatchError(drive.ErrInvalidArgument))

			_, err = m.Signal(drive.CommandDrive, 1)
			Expect(err).To(MatchError(drive.ErrInvalidArgument))

			_, err = m.Signal(drive.Command(7), 1, 2)
			Expect(err).To(MatchError(drive.ErrInvalidArgument))
		})
	})

	Describe("integration", func() {
		It("replays a straight drive to the commanded distance", func() {
			p, err := m.DriveSignal(1.0, 2.0)
			Expect(err).NotTo(HaveOccurred())
			for i := range p.Left {
				m.Step(p.Left[i], p.Right[i])
			}
			x, y, theta := m.Pose()
			Expect(x).To(BeNumerically("~", 1.0, 1e-6))
			Expect(y).To(BeNumerically("~", 0.0, 1e-12))
			Expect(theta).To(BeNumerically("~", 0.0, 1e-12))
		})

		It("replays a left arc to the expected heading", func() {
			p, err := m.ArcSignal(0.5, 90, 3.0)
			Expect(err).NotTo(HaveOccurred())
			for i := range p.Left {
				m.Step(p.Left[i], p.Right[i])
			}
			x, y, theta := m.Pose()
			Expect(theta).To(BeNumerically("~", math.Pi/2, 1e-6))
			Expect(x).To(BeNumerically("~", 0.5, 1e-3))
			Expect(y).To(BeNumerically("~", 0.5, 1e-3))
		})

		It("keeps the homogeneous pose consistent after motion", func() {
			m.Step(3, 7)
			T := m.HomogeneousPose()
			Expect(mat.Equal(T.Slice(0, 3, 0, 3), m.Orientation())).To(BeTrue())
			Expect(mat.Row(nil, 3, T)).To(Equal([]float64{0, 0, 0, 1}))
		})
	})

	Describe("trajectories", func() {
		It("joins segments in order with a linspace time vector", func() {
			d, err := m.DriveSignal(1, 0.01)
			Expect(err).NotTo(HaveOccurred())
			tr, err := m.TurnSignal(90, 0.02)
			Expect(err).NotTo(HaveOccurred())

			traj, err := m.Concatenate(d, tr)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(d.Len() + tr.Len()))
			Expect([]float64(traj.Left[:d.Len()])).To(Equal([]float64(d.Left)))
			Expect([]float64(traj.Right[d.Len():])).To(Equal([]float64(tr.Right)))

			want := make([]float64, traj.Len())
			floats.Span(want, 0, float64(traj.Len())*m.Dt())
			Expect(floats.EqualApprox(traj.Time, want, 1e-15)).To(BeTrue())
		})
	})
})
