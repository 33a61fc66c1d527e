package consts

// User-facing texts
const (
	MessageWelcome = "🎬 Welcome to YouTube Downloader Bot!\n\n" +
		"Send me a YouTube link and I'll download it for you!"
	MessageHelp = "📚 How to use:\n\n" +
		"1. Send a YouTube link (youtube.com or youtu.be).\n" +
		"2. Choose audio (MP3) or video (MP4).\n" +
		"3. For video, pick a quality or let me choose automatically.\n\n" +
		"/start - welcome message\n" +
		"/help - this help"

	MessageChooseType    = "Choose download type:"
	MessageInvalidURL    = "Please send a valid YouTube URL"
	MessageURLNotFound   = "No YouTube URL found."
	MessageStale         = "⚠️ This selection is outdated. Please use the buttons on your latest link."
	MessageChooseQuality = "🎬 Choose video quality (%s):"

	MessageNoQualities     = "Couldn't find separate %s qualities. Downloading default %dp (or best available)..."
	MessageQualitiesFailed = "❌ Failed to get video qualities. Downloading default %dp (or best available)..."

	StatusStarting    = "🔄 Starting %s download..."
	StatusDownloading = "📥 Downloading %s: %.1f%%"
	StatusDownloaded  = "✅ Download completed! 📤 Uploading..."
	StatusUploading   = "📤 Uploading... Size: %.1fMB"
	StatusDone        = "✅ Download and upload completed!"
	StatusFailed      = "❌ Download failed. Please try again."

	DefaultAudioTitle = "Audio"
	DefaultVideoTitle = "Video"
)
