package syncprogress

import (
	"context"
	"time"

	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/logic/lcheckpoint"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/persist/global"
	"github.com/healcoin/healcoin/util"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "healcoin"

// Status is a snapshot of the sync state of the active chain.
type Status struct {
	Height              int32
	BestHash            util.Hash
	Progress            float64
	TotalBlocksEstimate int32
	// LastCheckpointHeight is -1 when no checkpoint block is known locally.
	LastCheckpointHeight int32
	Enforced             bool
}

// Reporter publishes sync progress of a chain as log lines and gauges.
type Reporter struct {
	chain       *chain.Chain
	checkpoints *lcheckpoint.Checkpoints

	progress      prometheus.Gauge
	tipHeight     prometheus.Gauge
	totalEstimate prometheus.Gauge
}

func NewReporter(c *chain.Chain, cp *lcheckpoint.Checkpoints, reg prometheus.Registerer) (*Reporter, error) {
	r := &Reporter{
		chain:       c,
		checkpoints: cp,
		progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "verification_progress",
			Help:      "Estimated fraction of the chain verified, unclamped.",
		}),
		tipHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tip_height",
			Help:      "Height of the active chain tip, -1 without a chain.",
		}),
		totalEstimate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "checkpoint",
			Name:      "total_blocks_estimate",
			Help:      "Highest checkpointed height, 0 when checkpoints are off.",
		}),
	}
	if reg != nil {
		for _, collector := range []prometheus.Collector{r.progress, r.tipHeight, r.totalEstimate} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Status reads the tip under a read lock on global.CsMain.
func (r *Reporter) Status() *Status {
	global.CsMain.RLock()
	defer global.CsMain.RUnlock()

	s := &Status{
		Height:               r.chain.Height(),
		TotalBlocksEstimate:  r.checkpoints.TotalBlocksEstimate(),
		LastCheckpointHeight: -1,
		Enforced:             r.checkpoints.IsEnforced(),
	}
	tip := r.chain.Tip()
	if tip != nil {
		s.BestHash = *tip.GetBlockHash()
	}
	s.Progress = r.checkpoints.GuessVerificationProgress(tip)
	if last := r.checkpoints.LastCheckpointPresentIn(r.chain); last != nil {
		s.LastCheckpointHeight = last.Height
	}
	return s
}

// Report takes a Status, logs it and updates the gauges.
func (r *Reporter) Report() *Status {
	s := r.Status()
	r.progress.Set(s.Progress)
	r.tipHeight.Set(float64(s.Height))
	r.totalEstimate.Set(float64(s.TotalBlocksEstimate))
	log.Info("sync progress: height=%d best=%s progress=%.6f estimate=%d checkpoint=%d",
		s.Height, s.BestHash, s.Progress, s.TotalBlocksEstimate, s.LastCheckpointHeight)
	return s
}

// Run reports once and then every interval until ctx is done. A non
// positive interval reports only once.
func (r *Reporter) Run(ctx context.Context, interval time.Duration) {
	r.Report()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Report()
		}
	}
}
