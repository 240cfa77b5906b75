package config

const (
	defaultCaptureDir            = "~/demoreel/captures"
	defaultAudioDir              = "~/demoreel/audio"
	defaultOutputDir             = "~/demoreel/synced-beats"
	defaultReportDir             = "~/demoreel/output"
	defaultLogDir                = "~/.local/share/demoreel/logs"
	defaultStateDir              = "~/.local/share/demoreel"
	defaultFFmpeg                = "ffmpeg"
	defaultFFprobe               = "ffprobe"
	defaultVideoCodec            = "libx264"
	defaultVideoProfile          = "high"
	defaultPreset                = "medium"
	defaultCRF                   = 20
	defaultPixelFormat           = "yuv420p"
	defaultAudioCodec            = "aac"
	defaultAudioBitrate          = "192k"
	defaultRetryAttempts         = 2
	defaultRetryDelaySeconds     = 2
	defaultRunTimeoutSeconds     = 1800
	defaultOverrunPolicy         = OverrunFreeze
	defaultPlaceholderSampleRate = 44100
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Overrun policies for beat windows that extend past the master recording.
const (
	OverrunFreeze = "freeze"
	OverrunError  = "error"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CaptureDir: defaultCaptureDir,
			AudioDir:   defaultAudioDir,
			OutputDir:  defaultOutputDir,
			ReportDir:  defaultReportDir,
			LogDir:     defaultLogDir,
			StateDir:   defaultStateDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
		},
		Sync: Sync{
			VideoCodec:            defaultVideoCodec,
			VideoProfile:          defaultVideoProfile,
			Preset:                defaultPreset,
			CRF:                   defaultCRF,
			PixelFormat:           defaultPixelFormat,
			AudioCodec:            defaultAudioCodec,
			AudioBitrate:          defaultAudioBitrate,
			RetryAttempts:         defaultRetryAttempts,
			RetryDelaySeconds:     defaultRetryDelaySeconds,
			RunTimeoutSeconds:     defaultRunTimeoutSeconds,
			OverrunPolicy:         defaultOverrunPolicy,
			PlaceholderSampleRate: defaultPlaceholderSampleRate,
		},
		Quality:    defaultQuality(),
		Beats:      defaultBeats(),
		AudioNames: defaultAudioNames(),
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultQuality() Quality {
	return Quality{
		MinOverall:            80,
		MinTechnicalAccuracy:  75,
		MinVisualQuality:      80,
		MinPacing:             75,
		MinEngagement:         70,
		MinDurationSeconds:    180,
		MaxDurationSeconds:    300,
		TargetDurationSeconds: 240,
		RequiredTopics:        []string{"real-time", "evacuation", "resource"},
		ForbiddenTopics:       []string{"lorem ipsum", "guaranteed"},
		BeatMinSeconds:        5,
		BeatMaxSeconds:        120,
		BeatBonusMinSeconds:   10,
		BeatBonusMaxSeconds:   30,
		MinBitrateKbps:        1000,
		BonusBitrateKbps:      2000,
		MinFramerate:          24,
		ExpectedWidth:         1920,
		ExpectedHeight:        1080,
		BeatPassScore:         70,
	}
}

// defaultBeats is the eight-beat, four-minute demo timeline.
func defaultBeats() []Beat {
	return []Beat{
		{ID: "hook", Title: "Opening Hook", Start: 0, Duration: 20,
			Narration: "When a disaster strikes, every minute counts. This dashboard turns scattered reports into one real-time picture."},
		{ID: "situation", Title: "Situation Overview", Start: 20, Duration: 30,
			Narration: "The live map shows active incidents, hazard zones, and affected population at a glance."},
		{ID: "triage", Title: "Incident Triage", Start: 50, Duration: 35,
			Narration: "Incoming incidents are ranked by severity so coordinators can focus on the most urgent calls first."},
		{ID: "resources", Title: "Resource Allocation", Start: 85, Duration: 35,
			Narration: "Drag a resource onto an incident to dispatch it, and watch availability update for every team."},
		{ID: "evacuation", Title: "Evacuation Routing", Start: 120, Duration: 30,
			Narration: "Evacuation routes avoid blocked roads and flooded areas, recalculating as conditions change."},
		{ID: "communications", Title: "Field Communications", Start: 150, Duration: 35,
			Narration: "Field teams report status updates that appear instantly for everyone in the command center."},
		{ID: "analytics", Title: "Impact Analytics", Start: 185, Duration: 30,
			Narration: "Analytics summarize response times and resource usage to guide the next operational period."},
		{ID: "close", Title: "Call To Action", Start: 215, Duration: 25,
			Narration: "Faster decisions, clearer coordination, more lives protected. Request a demo today."},
	}
}

func defaultAudioNames() map[string]string {
	return map[string]string{
		"hook":           "01-opening-hook.wav",
		"situation":      "02-situation-overview.wav",
		"triage":         "03-incident-triage.wav",
		"resources":      "04-resource-allocation.wav",
		"evacuation":     "05-evacuation-routing.wav",
		"communications": "06-field-communications.wav",
		"analytics":      "07-impact-analytics.wav",
		"close":          "08-call-to-action.wav",
	}
}
