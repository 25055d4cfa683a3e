package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/fracnet/fracnet/internal/autodiff"
	"github.com/fracnet/fracnet/internal/config"
	"github.com/fracnet/fracnet/internal/export"
	"github.com/fracnet/fracnet/internal/fpde"
	"github.com/fracnet/fracnet/internal/frac"
	"github.com/fracnet/fracnet/internal/geometry"
	"github.com/fracnet/fracnet/internal/network"
	"github.com/fracnet/fracnet/internal/storage"
	"github.com/fracnet/fracnet/internal/train"
	"github.com/fracnet/fracnet/internal/viz"
)

var (
	dataDir        string
	configFile     string
	preset         string
	alpha          float64
	trainableAlpha bool
	meshType       string
	resolution     []int
	anchors        int
	batchSize      int
	nTest          int
	epochs         int
	lr             float64
	alphaLR        float64
	seed           int64
	live           bool
	svgOut         bool
	// weights / matrix inspection
	numWeights int
	// grid search ranges
	alphaRange []float64
	lrRange    []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fracnet",
		Short: "physics-informed training for fractional PDEs",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fracnet", "data directory")

	trainCmd := &cobra.Command{
		Use:   "train [domain]",
		Short: "train a network on the fractional Poisson problem",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrain,
	}
	trainCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	trainCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	trainCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "fractional order")
	trainCmd.Flags().BoolVar(&trainableAlpha, "trainable-alpha", false, "learn the fractional order")
	trainCmd.Flags().StringVar(&meshType, "mesh", "static", "mesh type (static, dynamic)")
	trainCmd.Flags().IntSliceVar(&resolution, "res", []int{config.DefaultResolution}, "mesh resolution")
	trainCmd.Flags().IntVar(&anchors, "anchors", config.DefaultAnchors, "boundary anchor points per batch")
	trainCmd.Flags().IntVar(&batchSize, "batch", 0, "training batch size")
	trainCmd.Flags().IntVar(&nTest, "ntest", 0, "test batch size")
	trainCmd.Flags().IntVar(&epochs, "epochs", config.DefaultEpochs, "training epochs")
	trainCmd.Flags().Float64Var(&lr, "lr", config.DefaultLR, "learning rate")
	trainCmd.Flags().Float64Var(&alphaLR, "alpha-lr", 0, "learning rate for the fractional order")
	trainCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	trainCmd.Flags().BoolVar(&live, "live", false, "show live loss monitor")
	trainCmd.Flags().BoolVar(&svgOut, "svg", false, "write loss and profile plots as SVG into the run directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [domain]",
		Short: "list available presets for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for domain: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "show fractional difference coefficients",
		RunE:  showWeights,
	}
	weightsCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "fractional order")
	weightsCmd.Flags().IntVar(&numWeights, "n", 20, "number of coefficients")

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "print the static discretization matrix",
		RunE:  showMatrix,
	}
	matrixCmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "fractional order")
	matrixCmd.Flags().IntSliceVar(&resolution, "res", []int{8}, "mesh resolution")

	searchCmd := &cobra.Command{
		Use:   "search [domain]",
		Short: "grid search over fractional order and learning rate",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().Float64SliceVar(&alphaRange, "alphas", []float64{1.2, 1.5, 1.8}, "fractional orders to try")
	searchCmd.Flags().Float64SliceVar(&lrRange, "lrs", []float64{1e-3, 1e-2}, "learning rates to try")
	searchCmd.Flags().IntVar(&epochs, "epochs", 200, "epochs per grid cell")
	searchCmd.Flags().StringVar(&preset, "preset", "", "base preset configuration")

	rootCmd.AddCommand(trainCmd, listCmd, presetsCmd, weightsCmd, matrixCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers a preset, a config file, and explicit flags on top
// of the defaults. Flags win over the file, the file wins over the preset.
func resolveConfig(cmd *cobra.Command, domain string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(domain, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(domain))
		}
		*cfg = *p
	} else if domain != cfg.Domain.Kind {
		switch domain {
		case "interval":
			cfg.Domain = config.DomainConfig{Kind: "interval", XMin: 0, XMax: 1}
		case "disk":
			cfg.Domain = config.DomainConfig{Kind: "disk", Center: []float64{0, 0}, Radius: 1}
			cfg.MeshType = "dynamic"
		case "ball":
			cfg.Domain = config.DomainConfig{Kind: "ball", Center: []float64{0, 0, 0}, Radius: 1}
			cfg.MeshType = "dynamic"
		default:
			return nil, fmt.Errorf("unknown domain: %s", domain)
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *fileCfg
	}

	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("trainable-alpha") {
		cfg.TrainableAlpha = trainableAlpha
	}
	if cmd.Flags().Changed("mesh") {
		cfg.MeshType = meshType
	}
	if cmd.Flags().Changed("res") {
		cfg.Resolution = resolution
	}
	if cmd.Flags().Changed("anchors") {
		cfg.NumAnchors = anchors
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = batchSize
	}
	if cmd.Flags().Changed("ntest") {
		cfg.NTest = nTest
	}
	if cmd.Flags().Changed("epochs") {
		cfg.Train.Epochs = epochs
	}
	if cmd.Flags().Changed("lr") {
		cfg.Train.LR = lr
	}
	if cmd.Flags().Changed("alpha-lr") {
		cfg.Train.AlphaLR = alphaLR
	}
	if cmd.Flags().Changed("seed") {
		cfg.Train.Seed = seed
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = cfg.Resolution[len(cfg.Resolution)-1] - 2 + cfg.NumAnchors
	}
	if cfg.NTest == 0 {
		cfg.NTest = cfg.BatchSize
	}

	return cfg, cfg.Validate()
}

func buildDomain(cfg *config.Config) (geometry.Domain, error) {
	switch cfg.Domain.Kind {
	case "interval":
		return geometry.NewInterval(cfg.Domain.XMin, cfg.Domain.XMax), nil
	case "disk":
		c := cfg.Domain.Center
		if len(c) != 2 {
			return nil, fmt.Errorf("disk center needs 2 coordinates, got %d", len(c))
		}
		return geometry.NewDisk(c[0], c[1], cfg.Domain.Radius), nil
	case "ball":
		c := cfg.Domain.Center
		if len(c) != 3 {
			return nil, fmt.Errorf("ball center needs 3 coordinates, got %d", len(c))
		}
		return geometry.NewBall(c[0], c[1], c[2], cfg.Domain.Radius), nil
	default:
		return nil, fmt.Errorf("unknown domain kind: %s", cfg.Domain.Kind)
	}
}

func parseMesh(s string) (frac.MeshType, error) {
	switch s {
	case "static":
		return frac.Static, nil
	case "dynamic":
		return frac.Dynamic, nil
	default:
		return 0, fmt.Errorf("unknown mesh type: %s", s)
	}
}

// problem bundles the benchmark fractional Poisson setup for a domain:
// the exact solution, the right-hand side of the equation, and the
// residual assembled from the discretization matrix.
type problem struct {
	exact    fpde.TargetFunc
	rhs      func(p []float64) float64
	residual fpde.Residual
}

// intervalProblem is the two-sided fractional Poisson benchmark on [0,1]
// with exact solution u(x) = x^3 (1-x)^3. The right-hand side follows
// from termwise Riemann-Liouville differentiation of the polynomial.
func intervalProblem(order frac.Order) problem {
	coeffs := []float64{1, -3, 3, -1}
	powers := []float64{3, 4, 5, 6}

	rhs := func(p []float64) float64 {
		a := order.Float()
		x := p[0]
		sum := 0.0
		for k, c := range coeffs {
			pk := powers[k]
			g := math.Gamma(pk+1) / math.Gamma(pk+1-a)
			sum += c * g * (math.Pow(x, pk-a) + math.Pow(1-x, pk-a))
		}
		return sum
	}
	return problem{
		exact: func(p []float64) float64 {
			x := p[0]
			return math.Pow(x, 3) * math.Pow(1-x, 3)
		},
		rhs:      rhs,
		residual: linearResidual(rhs),
	}
}

// ballProblem is the fractional Poisson benchmark on a disk or ball with
// exact solution u(x) = (1 - r^2)^(1+alpha/2) in normalized coordinates.
// The directional quadrature is converted to the fractional Laplacian by
// the normalization constant C(alpha,d), which is folded into the
// right-hand side.
func ballProblem(order frac.Order, dim int, center []float64, radius float64) problem {
	r2 := func(p []float64) float64 {
		s := 0.0
		for i, c := range center {
			d := (p[i] - c) / radius
			s += d * d
		}
		return s
	}

	rhs := func(p []float64) float64 {
		a := order.Float()
		d := float64(dim)
		c := math.Gamma((1-a)/2) * math.Gamma((d+a)/2) / (2 * math.Pow(math.Pi, (d+1)/2))
		raw := math.Pow(2, a) * math.Gamma(2+a/2) * math.Gamma((d+a)/2) / math.Gamma(d/2) *
			(1 - (1+a/2)*r2(p)) * math.Pow(radius, -a)
		return raw / c
	}
	return problem{
		exact: func(p []float64) float64 {
			a := order.Float()
			v := 1 - r2(p)
			if v < 0 {
				v = 0
			}
			return math.Pow(v, 1+a/2)
		},
		rhs:      rhs,
		residual: linearResidual(rhs),
	}
}

func linearResidual(rhs func(p []float64) float64) fpde.Residual {
	return func(x [][]float64, y []float64, w frac.Matrix) []float64 {
		f := frac.MulVec(w, y)
		for i := range f {
			f[i] -= rhs(x[i])
		}
		return f
	}
}

func buildProblem(cfg *config.Config, order frac.Order) problem {
	switch cfg.Domain.Kind {
	case "disk":
		return ballProblem(order, 2, cfg.Domain.Center, cfg.Domain.Radius)
	case "ball":
		return ballProblem(order, 3, cfg.Domain.Center, cfg.Domain.Radius)
	default:
		return intervalProblem(order)
	}
}

func buildTrainer(cfg *config.Config) (*train.Trainer, *network.FNN, geometry.Domain, error) {
	dom, err := buildDomain(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	mesh, err := parseMesh(cfg.MeshType)
	if err != nil {
		return nil, nil, nil, err
	}
	disc, err := frac.NewDiscretization(dom.Dim(), mesh, cfg.Resolution, cfg.NumAnchors)
	if err != nil {
		return nil, nil, nil, err
	}

	var order frac.Order
	if cfg.TrainableAlpha {
		order = autodiff.Var(cfg.Alpha)
	} else {
		order = frac.Fixed(cfg.Alpha)
	}

	prob := buildProblem(cfg, order)

	data, err := fpde.NewData(prob.residual, order, prob.exact, dom, disc, cfg.BatchSize, cfg.NTest)
	if err != nil {
		return nil, nil, nil, err
	}

	net, err := network.NewFNN(cfg.Net.Layers, cfg.Net.Activation, cfg.Train.Seed)
	if err != nil {
		return nil, nil, nil, err
	}

	tr := train.New(net, data, prob.rhs, order, train.Config{
		Epochs:       cfg.Train.Epochs,
		LearningRate: cfg.Train.LR,
		AlphaLR:      cfg.Train.AlphaLR,
	})
	tr.AddMetric(train.NewBestTestLoss())
	tr.AddMetric(train.NewFinalTrainLoss())
	tr.SetExact(prob.exact)
	return tr, net, dom, nil
}

type progressPrinter struct {
	every int
}

func (p progressPrinter) OnEpoch(epoch int, tr, te [2]float64) {
	if epoch%p.every != 0 {
		return
	}
	fmt.Printf("epoch %6d  train=%.4e  test=%.4e\n", epoch, tr[0]+tr[1], te[0]+te[1])
}

func runTrain(cmd *cobra.Command, args []string) error {
	domain := "interval"
	if len(args) > 0 {
		domain = args[0]
	}

	cfg, err := resolveConfig(cmd, domain)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	tr, net, dom, err := buildTrainer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("training on %s (alpha=%g, %s mesh, res=%v)\n",
		cfg.Domain.Kind, cfg.Alpha, cfg.MeshType, cfg.Resolution)
	start := time.Now()

	var result *train.Result
	if live {
		result, err = runLive(ctx, tr, cfg)
	} else {
		every := cfg.Train.Epochs / 20
		if every == 0 {
			every = 1
		}
		tr.AddObserver(progressPrinter{every: every})
		result, err = tr.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if result == nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Domain.Kind+"-"+cfg.MeshType, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d epochs in %v\n", result.Epochs, elapsed)
	fmt.Printf("run id: %s\n", runID)
	if cfg.TrainableAlpha {
		fmt.Printf("learned alpha: %.6f\n", result.Alpha)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}

	fmt.Println()
	fmt.Println(viz.LossPlot(result.TrainHistory, result.TestHistory))

	runDir := filepath.Join(dataDir, runID)
	if svgOut {
		svg := export.LossSVG(result.TrainHistory, result.TestHistory, 800, 400)
		if err := os.WriteFile(filepath.Join(runDir, "loss.svg"), []byte(svg), 0644); err != nil {
			return err
		}
	}

	if cfg.Domain.Kind == "interval" {
		fmt.Println()
		order := frac.Fixed(result.Alpha)
		prob := buildProblem(cfg, order)
		pts := dom.UniformPoints(80, true)
		xs := make([]float64, len(pts))
		pred := make([]float64, len(pts))
		exact := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = p[0]
			pred[i] = net.Forward(p)[0]
			exact[i] = prob.exact(p)
		}
		fmt.Println(viz.ProfilePlot(pred, exact))

		if svgOut {
			svg := export.ProfileSVG(xs, pred, exact, 800, 400)
			if err := os.WriteFile(filepath.Join(runDir, "profile.svg"), []byte(svg), 0644); err != nil {
				return err
			}
		}
	}

	return nil
}

func runLive(ctx context.Context, tr *train.Trainer, cfg *config.Config) (*train.Result, error) {
	title := fmt.Sprintf("fracnet  %s  alpha=%g  %s", cfg.Domain.Kind, cfg.Alpha, cfg.MeshType)
	p := tea.NewProgram(viz.NewModel(title))
	obs := viz.NewLive(p)
	tr.AddObserver(obs)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *train.Result
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = tr.Run(runCtx)
		obs.Done()
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	cancel()
	<-done
	return result, runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDOMAIN\tMESH\tALPHA\tEPOCHS\tBEST_TEST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%d\t%.3e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Domain,
			run.MeshType,
			run.Alpha,
			run.Epochs,
			run.Metrics["best_test_loss"],
		)
	}

	return w.Flush()
}

func showWeights(cmd *cobra.Command, args []string) error {
	if alpha <= 0 || alpha >= 2 {
		return fmt.Errorf("alpha must lie in (0,2), got %g", alpha)
	}

	w := make([]float64, numWeights)
	w[0] = 1
	for j := 1; j < numWeights; j++ {
		w[j] = w[j-1] * (float64(j) - 1 - alpha) / float64(j)
	}

	fmt.Printf("Grunwald-Letnikov coefficients, alpha=%g\n\n", alpha)
	for j, v := range w {
		fmt.Printf("  w[%2d] = %+.8f\n", j, v)
	}

	fmt.Println()
	graph := asciigraph.Plot(w,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("coefficient decay"),
	)
	fmt.Println(graph)
	return nil
}

func showMatrix(cmd *cobra.Command, args []string) error {
	dom := geometry.NewInterval(0, 1)
	disc, err := frac.NewDiscretization(1, frac.Static, resolution, 0)
	if err != nil {
		return err
	}
	op, err := frac.New(frac.Fixed(alpha), dom, disc, nil)
	if err != nil {
		return err
	}
	m, err := op.GetMatrix(false)
	if err != nil {
		return err
	}

	dense, ok := m.(*mat.Dense)
	if !ok {
		return fmt.Errorf("unexpected matrix form %T", m)
	}
	rows, cols := dense.Dims()
	fmt.Printf("static matrix, alpha=%g, resolution=%v (%dx%d)\n\n", alpha, resolution, rows, cols)

	var b strings.Builder
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			b.WriteString(fmt.Sprintf("%10.5f", dense.At(i, j)))
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	domain := "interval"
	if len(args) > 0 {
		domain = args[0]
	}

	cfg, err := resolveConfig(cmd, domain)
	if err != nil {
		return err
	}
	cfg.Train.Epochs = epochs

	gs := train.NewGridSearch([]string{"alpha", "lr"}, [][]float64{alphaRange, lrRange})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("grid search on %s: alphas=%v lrs=%v (%d epochs each)\n",
		domain, alphaRange, lrRange, epochs)
	start := time.Now()

	cell := 0
	best, bestVal, err := gs.Search(ctx, func(params map[string]float64) (*train.Trainer, error) {
		cell++
		trial := *cfg
		trial.Alpha = params["alpha"]
		trial.Train.LR = params["lr"]
		fmt.Printf("  cell %d: alpha=%g lr=%g\n", cell, trial.Alpha, trial.Train.LR)
		tr, _, _, err := buildTrainer(&trial)
		return tr, err
	}, "best_test_loss")
	if err != nil {
		return err
	}

	fmt.Printf("\nfinished in %v\n", time.Since(start))
	if best == nil {
		return fmt.Errorf("no grid cell completed")
	}
	fmt.Printf("best: alpha=%s lr=%s (best_test_loss=%.6e)\n",
		strconv.FormatFloat(best["alpha"], 'g', -1, 64),
		strconv.FormatFloat(best["lr"], 'g', -1, 64),
		bestVal)
	return nil
}
