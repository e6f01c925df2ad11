/*
Package gather is a build-pipeline plugin that brings separate files and
directories together under one output directory.

🔄 Flow:
 1. Every configured source is stat'ed concurrently
 2. A file source becomes output/<base name>
 3. A directory source is walked and each file becomes output/<path relative to the source>
 4. Each insertion reads the file and stores {contents, mode} in the output tree
 5. The completion callback fires once, with the first error or nil

Every record carries the octal mode of its source root, not of the file
itself. Records inserted before a failure are kept.

🔍 Example:

	plugin, err := gather.New(config.Options{
		Files:  config.PathList{"static", "robots.txt"},
		Output: "public",
	}, osfs.New("/"), nil)
	if err != nil {
		return err
	}
	err = pipeline.New(nil).Use(plugin).Build(ctx, pipeline.NewFiles())
*/
package gather
