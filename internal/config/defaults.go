package config

const (
	defaultConfigPath        = "~/.config/go-focus/config.toml"
	defaultJournalPath       = "~/.local/share/go-focus/journal.db"
	defaultLockDir           = "~/.cache/go-focus"
	defaultCameraDevice      = "0"
	defaultCameraWidth       = 1280
	defaultCameraHeight      = 720
	defaultDetectorKind      = "cascade"
	defaultScaleFactor       = 1.1
	defaultMinNeighbors      = 5
	defaultScoreThreshold    = 0.6
	defaultLeftThreshold     = 0.65
	defaultRightThreshold    = 0.35
	defaultDownThreshold     = 0.65
	defaultBlinkThreshold    = 3.8
	defaultEmotionProvider   = "static"
	defaultEmotionModel      = "gemini-2.0-flash"
	defaultEmotionLabel      = "neutral"
	defaultEmotionTimeout    = 2.0
	defaultAlertSink         = "command"
	defaultAlertCommand      = "say"
	defaultAlertPlayer       = "afplay"
	defaultAlertQueueSize    = 8
	defaultTTSProvider       = "openai"
	defaultWebAddr           = "127.0.0.1:8090"
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
	defaultCascadeFileFace   = "haarcascade_frontalface_default.xml"
	defaultCascadeFileEye    = "haarcascade_eye.xml"
	defaultYuNetModelFile    = "face_detection_yunet_2023mar.onnx"
	defaultMoodSeconds       = 3.0
	defaultIntervalSeconds   = 5.0
	defaultDistanceThreshold = 50
	defaultSizeDiffThreshold = 100
	defaultMinFaceSize       = 100
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tracking: Tracking{
			DistanceThreshold: defaultDistanceThreshold,
			SizeDiffThreshold: defaultSizeDiffThreshold,
			Anchor:            "corner",
			MinFaceSize:       defaultMinFaceSize,
		},
		Mood: Mood{
			DurationSeconds: defaultMoodSeconds,
		},
		Alert: Alert{
			IntervalSeconds: defaultIntervalSeconds,
			Sink:            defaultAlertSink,
			Command:         defaultAlertCommand,
			Player:          defaultAlertPlayer,
			QueueSize:       defaultAlertQueueSize,
		},
		Camera: Camera{
			Device:  defaultCameraDevice,
			Width:   defaultCameraWidth,
			Height:  defaultCameraHeight,
			Mirror:  true,
			Window:  true,
			LockDir: defaultLockDir,
		},
		Detector: Detector{
			Kind:           defaultDetectorKind,
			CascadePath:    defaultCascadeFileFace,
			ModelPath:      defaultYuNetModelFile,
			ScaleFactor:    defaultScaleFactor,
			MinNeighbors:   defaultMinNeighbors,
			ScoreThreshold: defaultScoreThreshold,
		},
		Gaze: Gaze{
			Enabled:        true,
			EyeCascadePath: defaultCascadeFileEye,
			LeftThreshold:  defaultLeftThreshold,
			RightThreshold: defaultRightThreshold,
			DownThreshold:  defaultDownThreshold,
			BlinkThreshold: defaultBlinkThreshold,
		},
		Emotion: Emotion{
			Provider:       defaultEmotionProvider,
			Model:          defaultEmotionModel,
			StaticLabel:    defaultEmotionLabel,
			TimeoutSeconds: defaultEmotionTimeout,
		},
		TTS: TTS{
			Provider: defaultTTSProvider,
		},
		Web: Web{
			Addr: defaultWebAddr,
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
