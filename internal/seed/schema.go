package seed

// Entry is a single bookmark in the seed file
type Entry struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// File is the root structure of a seed YAML file. Owner may be overridden
// by configuration; the file value is a default.
type File struct {
	Owner     string  `yaml:"owner"`
	Bookmarks []Entry `yaml:"bookmarks"`
}
