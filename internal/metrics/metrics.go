package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lexiquiz/internal/domain"
	"lexiquiz/internal/event"
)

// Collector turns challenge lifecycle events into prometheus counters.
type Collector struct {
	started  *prometheus.CounterVec
	finished prometheus.Counter
	words    prometheus.Counter
	novel    prometheus.Counter
	answers  *prometheus.CounterVec
}

func NewCollector(eb *event.Bus, reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	c := &Collector{
		started: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lexiquiz_challenges_started_total",
			Help: "Challenges started, by target language.",
		}, []string{"lang"}),
		finished: f.NewCounter(prometheus.CounterOpts{
			Name: "lexiquiz_challenges_finished_total",
			Help: "Challenges finished.",
		}),
		words: f.NewCounter(prometheus.CounterOpts{
			Name: "lexiquiz_words_served_total",
			Help: "Words served across all challenges.",
		}),
		novel: f.NewCounter(prometheus.CounterOpts{
			Name: "lexiquiz_words_novel_total",
			Help: "Served words the user had not been shown before.",
		}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lexiquiz_answers_total",
			Help: "Submitted answers, by result.",
		}, []string{"result"}),
	}

	eb.Subscribe(domain.EventNameChallengeStarted, func(_ context.Context, e event.Event) error {
		c.observeStarted(e.(domain.EventChallengeStarted))
		return nil
	})
	eb.Subscribe(domain.EventNameChallengeFinished, func(_ context.Context, e event.Event) error {
		c.observeFinished(e.(domain.EventChallengeFinished))
		return nil
	})

	return c
}

func (c *Collector) observeStarted(e domain.EventChallengeStarted) {
	c.started.WithLabelValues(e.Lang).Inc()
	c.words.Add(float64(e.Words))
	c.novel.Add(float64(e.Novel))
}

func (c *Collector) observeFinished(e domain.EventChallengeFinished) {
	c.finished.Inc()
	c.answers.WithLabelValues("correct").Add(float64(e.Correct))
	c.answers.WithLabelValues("incorrect").Add(float64(e.Incorrect))
}
