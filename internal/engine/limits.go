package engine

// FieldLimits is the active set of maximum lengths and counts an
// artifact must respect. The zero value is not usable; start from
// DefaultFieldLimits and merge per-request overrides into a copy. The
// struct is passed by value through the whole pipeline so one request's
// overrides can never leak into a concurrent one.
type FieldLimits struct {
	ShortVideoTitleMax   int `json:"reel_title_max"`
	ShortVideoCaptionMax int `json:"reel_caption_max"`
	ShortVideoHookMax    int `json:"reel_hook_max"`
	ShortVideoScriptMax  int `json:"reel_script_max"`

	CarouselTitleMax        int `json:"carousel_title_max"`
	CarouselCaptionMax      int `json:"carousel_caption_max"`
	CarouselSlideHeadingMax int `json:"carousel_slide_heading_max"`
	CarouselSlideTextMax    int `json:"carousel_slide_text_max"`
	CarouselMinSlides       int `json:"carousel_min_slides"`
	CarouselMaxSlides       int `json:"carousel_max_slides"`

	MicroPostTitleMax      int `json:"tweet_title_max"`
	MicroPostTextMax       int `json:"tweet_text_max"`
	MicroPostThreadItemMax int `json:"tweet_thread_item_max"`
}

// DefaultFieldLimits returns the stock limit set.
func DefaultFieldLimits() FieldLimits {
	return FieldLimits{
		ShortVideoTitleMax:   100,
		ShortVideoCaptionMax: 300,
		ShortVideoHookMax:    200,
		ShortVideoScriptMax:  2000,

		CarouselTitleMax:        100,
		CarouselCaptionMax:      300,
		CarouselSlideHeadingMax: 100,
		CarouselSlideTextMax:    800,
		CarouselMinSlides:       4,
		CarouselMaxSlides:       8,

		MicroPostTitleMax:      100,
		MicroPostTextMax:       280,
		MicroPostThreadItemMax: 280,
	}
}

// Merge returns a copy of l with every positive value from o applied.
func (l FieldLimits) Merge(o FieldLimits) FieldLimits {
	pick := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	pick(&l.ShortVideoTitleMax, o.ShortVideoTitleMax)
	pick(&l.ShortVideoCaptionMax, o.ShortVideoCaptionMax)
	pick(&l.ShortVideoHookMax, o.ShortVideoHookMax)
	pick(&l.ShortVideoScriptMax, o.ShortVideoScriptMax)
	pick(&l.CarouselTitleMax, o.CarouselTitleMax)
	pick(&l.CarouselCaptionMax, o.CarouselCaptionMax)
	pick(&l.CarouselSlideHeadingMax, o.CarouselSlideHeadingMax)
	pick(&l.CarouselSlideTextMax, o.CarouselSlideTextMax)
	pick(&l.CarouselMinSlides, o.CarouselMinSlides)
	pick(&l.CarouselMaxSlides, o.CarouselMaxSlides)
	pick(&l.MicroPostTitleMax, o.MicroPostTitleMax)
	pick(&l.MicroPostTextMax, o.MicroPostTextMax)
	pick(&l.MicroPostThreadItemMax, o.MicroPostThreadItemMax)
	return l
}
