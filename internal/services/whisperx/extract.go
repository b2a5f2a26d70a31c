package whisperx

// buildFFmpegExtractArgs produces a mono 16kHz WAV of the first audio stream.
func buildFFmpegExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}
