package era

import (
	"fmt"
	"strings"
)

// Key identifies a target decade for one generation job.
type Key string

const (
	Era1900s Key = "1900s"
	Era1910s Key = "1910s"
	Era1920s Key = "1920s"
	Era1930s Key = "1930s"
	Era1940s Key = "1940s"
	Era1950s Key = "1950s"
	Era1960s Key = "1960s"
	Era1970s Key = "1970s"
	Era1980s Key = "1980s"
	Era1990s Key = "1990s"
	Era2000s Key = "2000s"
	Era2010s Key = "2010s"
)

var allEras = []Key{
	Era1900s, Era1910s, Era1920s, Era1930s,
	Era1940s, Era1950s, Era1960s, Era1970s,
	Era1980s, Era1990s, Era2000s, Era2010s,
}

var eraSet = func() map[Key]struct{} {
	set := make(map[Key]struct{}, len(allEras))
	for _, key := range allEras {
		set[key] = struct{}{}
	}
	return set
}()

// All returns the ordered list of known era keys.
func All() []Key {
	cp := make([]Key, len(allEras))
	copy(cp, allEras)
	return cp
}

// Parse converts a string into a known era Key.
func Parse(value string) (Key, bool) {
	normalized := Key(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := eraSet[normalized]
	return normalized, ok
}

// ParseList converts user-supplied era strings into keys, preserving order and
// dropping duplicates. An unknown value yields an error naming it.
func ParseList(values []string) ([]Key, error) {
	keys := make([]Key, 0, len(values))
	seen := make(map[Key]struct{}, len(values))
	for _, value := range values {
		key, ok := Parse(value)
		if !ok {
			return nil, fmt.Errorf("unknown era %q (known eras: %s through %s)", value, allEras[0], allEras[len(allEras)-1])
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}

// Description returns the narrative blurb for an era, used for narration.
func Description(key Key) string {
	return descriptions[key]
}

// StylePrompt returns the photographic style guidance for an era.
func StylePrompt(key Key) string {
	return styles[key]
}

// GenerationPrompt builds the full image generation prompt for an era.
func GenerationPrompt(key Key) string {
	return fmt.Sprintf("You are an expert fashion historian and photographer. "+
		"Your task is to reimagine the person in this photo as if they were living in the %[1]s. "+
		"**Primary Goal**: Create a photorealistic image that is authentic to the %[1]s. "+
		"The person's face and key features must be clearly recognizable. "+
		"**Key Elements**: "+
		"1. **Clothing & Hairstyle**: Must be strictly era-appropriate for the %[1]s. "+
		"2. **Photographic Style**: The image must visually match the photography of the era. "+
		"Follow these specific style guidelines: *%[2]s* "+
		"3. **Output Format**: The output must be ONLY the image. Do not include any text, captions, or descriptions.",
		key, styles[key])
}

// FallbackPrompt builds the simplified prompt retried when the model returns
// text instead of an image for the full prompt.
func FallbackPrompt(key Key) string {
	return fmt.Sprintf("Create a photorealistic photograph of the person in this image "+
		"dressed in %s fashion, styled like a photograph taken in the %s. "+
		"Return only the image.", key, key)
}

var descriptions = map[Key]string{
	Era1900s: "The turn of the century, known as the Belle Époque. High collars, S-bend corsets for women, and formal three-piece suits for men. A time of artistic elegance before the great wars.",
	Era1910s: "The decade of the Titanic and World War I. Fashion saw a move towards more practical clothing, with military influences, hobble skirts, and the rise of more relaxed silhouettes.",
	Era1920s: "The Roaring Twenties. Flapper dresses, sharp suits, Art Deco elegance, and the dawn of jazz. A revolutionary era of social and artistic change.",
	Era1930s: "The Golden Age of Hollywood. Glamorous gowns, tailored suits, and dramatic studio lighting. An era of escapism through silver screen elegance.",
	Era1940s: "Dominated by World War II. Utilitarian fashion with sharp, padded shoulders and tailored suits for women. A sense of 'make do and mend' gave way to post-war optimism and pin-up glamour.",
	Era1950s: "The era of rock 'n' roll, greaser jackets, and poodle skirts. Think classic Hollywood glamour and the birth of teenage rebellion.",
	Era1960s: "A revolution in fashion, from polished Mod looks to the free-spirited hippie movement with bell-bottoms and psychedelic prints.",
	Era1970s: "Defined by disco fever and bohemian flair. Earth tones, flare jeans, platform shoes, and feathered hair were all the rage.",
	Era1980s: "Bigger was better! Big hair, bold colors, shoulder pads, and neon everything. The decade of pop icons and power dressing.",
	Era1990s: "From grunge rock's flannel and ripped jeans to hip-hop's baggy sportswear. A decade of casual, minimalist, and alternative styles.",
	Era2000s: "The new millennium brought low-rise jeans, velour tracksuits, and a heavy dose of denim, all with a touch of Y2K tech optimism.",
	Era2010s: "The era of social media, indie pop, and hipster culture. Skinny jeans, plaid shirts, vintage-inspired filters, and the rise of the influencer aesthetic.",
}

var styles = map[Key]string{
	Era1900s: "Recreate the look of early portrait photography. The image should be in black-and-white or a heavily faded sepia tone, with a soft, almost ethereal focus. The lighting should be natural or simple studio light, mimicking the style of albumen or platinum prints. The image should feel formal and posed.",
	Era1910s: "Emulate the look of photography from this decade. Images should be in black-and-white or sepia, with a sharper focus than the 1900s but still retaining a classic, slightly grainy feel. The tone can be somber or formal, reflecting the era's mood. Posing should be stiff and traditional, as was common.",
	Era1920s: "Recreate the soft-focus, romanticized look of black-and-white or sepia-toned portraits from the era. Use lighting that creates dramatic shadows (like Rembrandt lighting), typical of studio photography of the time. The image should have a subtle grain and a timeless, classic feel.",
	Era1930s: "Emulate the high-glamour, sharp, and glossy look of Hollywood studio portraits. The lighting should be dramatic and controlled, creating a soft glow on the subject while maintaining deep, rich blacks. The final image should feel polished and aspirational, like a silver screen movie star's photograph.",
	Era1940s: "Capture the look of 40s photography. It could be either black-and-white or early, subtly saturated color (like early Kodachrome). The lighting should be purposeful, creating a mix of glamour and seriousness, reminiscent of film noir or wartime Hollywood portraits. The image should feel strong and defined.",
	Era1950s: "Emulate the classic, slightly desaturated look of early color photography from that time. The image should have a hint of film grain and a soft focus, reminiscent of Kodachrome or early Ektachrome film.",
	Era1960s: "Capture the shift from polished, sharp, high-contrast fashion photography to the vibrant, saturated, and sometimes dreamlike quality of the late 60s. A vintage lens flare or slight color bleeding effect would be appropriate.",
	Era1970s: "The photo must have a warm, earthy color palette with a distinct yellow or orange cast. Use a soft focus, noticeable film grain, and a slightly faded look, as if it were a well-loved photo print from an old album.",
	Era1980s: "Go for a sharp, glossy look with vibrant, potentially neon, colors. The photo should have higher contrast and could feature studio lighting effects like soft glows or defined lens flare, typical of 80s portrait and pop photography.",
	Era1990s: "Recreate the look of 90s point-and-shoot 35mm film cameras. The image should have a straightforward, slightly muted color palette, visible film grain, and the direct, sometimes harsh, look of an on-camera flash.",
	Era2000s: "Mimic the aesthetic of early consumer digital cameras. The image should be sharp, but may have some subtle digital noise or artifacts, slightly oversaturated colors, and the harsh, direct lighting from a built-in flash.",
	Era2010s: "Emulate the look of a high-quality smartphone photo with a popular Instagram-like filter (e.g., Valencia or X-Pro II). The image should have high saturation, possibly with a slight vignette or tilt-shift effect, capturing the polished-yet-casual social media aesthetic of the time.",
}
