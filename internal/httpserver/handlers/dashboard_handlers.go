package handlers

import (
	"net/http"
	"time"

	"decaptrack/internal/models"
	"decaptrack/internal/store"
)

type dashboardStats struct {
	TotalExcavatedVolume float64 `json:"totalExcavatedVolume"`
	MachineAvailability  float64 `json:"machineAvailability"`
	AverageYield         float64 `json:"averageYield"`
	SafetyIncidents30d   int     `json:"safetyIncidents30Days"`
}

func DashboardStats(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ops, err := st.ListOperations(r.Context(), "")
		if err != nil {
			respondInternal(w)
			return
		}
		machines, err := st.ListMachines(r.Context(), "")
		if err != nil {
			respondInternal(w)
			return
		}
		incidents, err := st.ListSafetyIncidents(r.Context())
		if err != nil {
			respondInternal(w)
			return
		}

		var stats dashboardStats
		var totalHours float64
		for _, op := range ops {
			stats.TotalExcavatedVolume += op.ExcavatedVolume
			totalHours += op.RunningHours
		}
		if totalHours > 0 {
			stats.AverageYield = stats.TotalExcavatedVolume / totalHours
		}

		running := 0
		for _, m := range machines {
			if m.CurrentState == models.StateRunning {
				running++
			}
		}
		if len(machines) > 0 {
			stats.MachineAvailability = float64(running) / float64(len(machines)) * 100
		}

		cutoff := time.Now().AddDate(0, 0, -30)
		for _, si := range incidents {
			if !si.Date.Before(cutoff) {
				stats.SafetyIncidents30d++
			}
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Lun",
	time.Tuesday:   "Mar",
	time.Wednesday: "Mer",
	time.Thursday:  "Jeu",
	time.Friday:    "Ven",
	time.Saturday:  "Sam",
	time.Sunday:    "Dim",
}

type methodDataset struct {
	Method models.DecapingMethod `json:"method"`
	Data   []float64             `json:"data"`
}

type volumeHours struct {
	volume float64
	hours  float64
}

func (vh volumeHours) yield() float64 {
	if vh.hours > 0 {
		return vh.volume / vh.hours
	}
	return 0
}

// PerformanceByMethod reports per-method average yields and a 7-day trend
// derived from the trailing week of stored operations.
func PerformanceByMethod(st store.Store) http.HandlerFunc {
	methods := []models.DecapingMethod{models.MethodTransport, models.MethodPoussage, models.MethodCasement}
	return func(w http.ResponseWriter, r *http.Request) {
		ops, err := st.ListOperations(r.Context(), "")
		if err != nil {
			respondInternal(w)
			return
		}

		totals := map[models.DecapingMethod]volumeHours{}
		daily := map[models.DecapingMethod]map[string]volumeHours{}
		for _, m := range methods {
			daily[m] = map[string]volumeHours{}
		}
		for _, op := range ops {
			if _, ok := daily[op.DecapingMethod]; !ok {
				continue
			}
			t := totals[op.DecapingMethod]
			t.volume += op.ExcavatedVolume
			t.hours += op.RunningHours
			totals[op.DecapingMethod] = t

			day := op.Date.Format("2006-01-02")
			d := daily[op.DecapingMethod][day]
			d.volume += op.ExcavatedVolume
			d.hours += op.RunningHours
			daily[op.DecapingMethod][day] = d
		}

		labels := make([]string, 0, 7)
		days := make([]string, 0, 7)
		today := time.Now()
		for i := 6; i >= 0; i-- {
			d := today.AddDate(0, 0, -i)
			labels = append(labels, weekdayLabels[d.Weekday()])
			days = append(days, d.Format("2006-01-02"))
		}

		datasets := make([]methodDataset, 0, len(methods))
		for _, m := range methods {
			data := make([]float64, len(days))
			for i, day := range days {
				data[i] = daily[m][day].yield()
			}
			datasets = append(datasets, methodDataset{Method: m, Data: data})
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"averages": map[string]float64{
				string(models.MethodTransport): totals[models.MethodTransport].yield(),
				string(models.MethodPoussage):  totals[models.MethodPoussage].yield(),
				string(models.MethodCasement):  totals[models.MethodCasement].yield(),
			},
			"trend": map[string]any{
				"labels":   labels,
				"datasets": datasets,
			},
		})
	}
}
