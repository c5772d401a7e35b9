package speech

// DefaultVoice is the Azure neural voice used when none is configured.
const DefaultVoice = "en-US-AvaNeural"

// DefaultAudioFormat is requested from Azure and understood by Player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)
