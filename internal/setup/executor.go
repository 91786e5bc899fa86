package setup

import (
	"github.com/crafted-tech/webflow"

	"github.com/hevolve/companion/internal/logging"
)

// RunSteps executes steps sequentially behind a webflow progress page,
// logging each outcome. Returns the first step error, or ErrCancelled
// when the user cancels mid-run. log may be nil.
func RunSteps(ui *webflow.Flow, title string, steps []Step, log *logging.Logger) error {
	var execErr error

	completed := ui.ShowProgress(title, func(p webflow.Progress) {
		total := len(steps)
		for i, step := range steps {
			if p.Cancelled() {
				log.Warn("Cancelled by user")
				execErr = ErrCancelled
				return
			}

			p.Update(float64(i)/float64(total)*100, step.Name)
			log.Step("Starting: %s", step.Name)

			res := step.Action()
			switch {
			case res.Err != nil:
				log.Error("Step '%s' failed: %v", step.Name, res.Err)
				execErr = res.Err
				return
			case res.Skip:
				if res.Info != "" {
					log.Info("Step '%s' skipped: %s", step.Name, res.Info)
				} else {
					log.Info("Step '%s' skipped", step.Name)
				}
			default:
				if res.Info != "" {
					log.Info("Step '%s' completed: %s", step.Name, res.Info)
				} else {
					log.Info("Step '%s' completed", step.Name)
				}
			}
		}

		p.Update(100, "Complete")
		log.Info("All steps completed")
	})

	if !completed && execErr == nil {
		return ErrCancelled
	}
	return execErr
}
