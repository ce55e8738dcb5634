package main

import (
	"context"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

type guiLogHook struct {
	formatter logrus.Formatter
	logData   binding.String
	progData  binding.Float
}

func (h *guiLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *guiLogHook) Fire(entry *logrus.Entry) error {
	// 진행률(progress) 파싱 (예: "50.00%")
	progress := -1.0
	if progStr, ok := entry.Data["progress"].(string); ok {
		if p, err := strconv.ParseFloat(strings.TrimSuffix(progStr, "%"), 64); err == nil {
			progress = p / 100.0
		}
	}

	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	msg := string(b)

	fyne.Do(func() {
		if progress >= 0 {
			h.progData.Set(progress)
		}
		curr, _ := h.logData.Get()
		lines := strings.Split(curr, "\n")
		// 로그가 너무 길어지면 성능 저하되므로 최근 200줄 유지
		if len(lines) > 200 {
			lines = lines[len(lines)-200:]
		}
		h.logData.Set(strings.Join(lines, "\n") + msg)
	})
	return nil
}

// limitSlider 한도 값을 조절하는 슬라이더와 현재 값을 보여주는 라벨
func limitSlider(name string, upper float64, value int) (*widget.Slider, fyne.CanvasObject) {
	data := binding.NewFloat()
	data.Set(float64(value))
	slider := widget.NewSliderWithData(1, upper, data)
	slider.Step = 1
	label := widget.NewLabelWithData(binding.FloatToStringWithFormat(data, name+": %.0f"))
	return slider, container.NewBorder(nil, nil, label, nil, slider)
}

func startGUI(config DashboardConfig, opts runOptions) {
	a := app.New()
	w := a.NewWindow("Citation Dashboard Builder")
	w.Resize(fyne.NewSize(900, 650))

	graphCheck := widget.NewCheck("Save Hierarchy Graph (SVG)", nil)
	graphCheck.SetChecked(opts.SaveGraph)

	openCheck := widget.NewCheck("Open In Browser", nil)
	openCheck.SetChecked(opts.OpenBrowser)

	viewsEntry := widget.NewEntry()
	viewsEntry.SetText(strings.Join(opts.Views, ","))

	nodesSlider, nodesRow := limitSlider("Nodes per community", 200, config.MaxNodesPerCommunity)
	communitiesSlider, communitiesRow := limitSlider("Communities", 200, config.MaxCommunities)
	labelsSlider, labelsRow := limitSlider("Community labels", 200, config.MaxCommunityLabels)

	logData := binding.NewString()
	logData.Set("GUI Loaded. Ready to run.\n")
	progData := binding.NewFloat()

	logEntry := widget.NewEntryWithData(logData)
	logEntry.MultiLine = true
	progressBar := widget.NewProgressBarWithData(progData)

	Logger.AddHook(&guiLogHook{
		formatter: &logrus.TextFormatter{DisableColors: true},
		logData:   logData,
		progData:  progData,
	})

	currentOptions := func() (runOptions, error) {
		views, err := ParseViews(viewsEntry.Text)
		return runOptions{
			SaveGraph:   graphCheck.Checked,
			OpenBrowser: openCheck.Checked,
			Views:       views,
		}, err
	}
	currentLimits := func() SampleLimits {
		return SampleLimits{
			MaxNodesPerCommunity: int(nodesSlider.Value),
			MaxCommunityLabels:   int(labelsSlider.Value),
			MaxCommunities:       int(communitiesSlider.Value),
		}
	}

	// 데이터셋은 한 번만 가져오고, 슬라이더가 바뀔 때마다 radial view만 다시 계산
	var recomputer *Recomputer
	recomputeRadial := func(float64) {
		if recomputer == nil {
			return
		}
		limits := currentLimits()
		go recomputer.Recompute(limits)
	}
	nodesSlider.OnChangeEnded = recomputeRadial
	communitiesSlider.OnChangeEnded = recomputeRadial
	labelsSlider.OnChangeEnded = recomputeRadial

	var runBtn *widget.Button
	runBtn = widget.NewButton("Build Dashboard", func() {
		o, err := currentOptions()
		if err != nil {
			Logger.WithError(err).Error("invalid views")
			return
		}
		c := config
		limits := currentLimits()
		c.MaxNodesPerCommunity, c.MaxCommunityLabels, c.MaxCommunities = limits.MaxNodesPerCommunity, limits.MaxCommunityLabels, limits.MaxCommunities

		runBtn.Disable()
		logData.Set("Starting dashboard build...\n")
		progData.Set(0)
		go func() {
			defer fyne.Do(runBtn.Enable)

			ctx := context.Background()
			result, err := runLogic(ctx, c, o)
			if err != nil {
				Logger.WithError(err).Error("failed to build dashboard")
				return
			}
			if result.Dataset == nil {
				return
			}

			// 이후 슬라이더 조작에 대비해 데이터셋을 보관
			r := NewRecomputer(result.Dataset, NewSamplingMetrics(), func(view *RadialView) {
				if _, err := publishRadialView(ctx, c, o, view); err != nil {
					Logger.WithError(err).Error("failed to save radial view")
				}
			})
			fyne.Do(func() {
				recomputer = r
			})
			Logger.Infof("live recompute enabled for %d papers", len(result.Dataset.Nodes))
		}()
	})

	form := container.NewVBox(
		widget.NewLabel("Dashboard Options"),
		graphCheck,
		openCheck,
		container.NewBorder(nil, nil, widget.NewLabel("Views: "), nil, viewsEntry),
		nodesRow,
		communitiesRow,
		labelsRow,
		progressBar,
		runBtn,
	)

	split := container.NewVSplit(form, logEntry)
	split.SetOffset(0.45)

	w.SetContent(split)
	w.ShowAndRun()
}
