/*
Package operation runs engfix over files on disk.

	+-------------+     +-------------+     +-------------+
	|  Discover   | --> |   Runner    | --> |   Report    |
	| (paths)     |     | (errgroup)  |     | (results)   |
	+-------------+     +------+------+     +-------------+
	                           |
	                    +------+------+
	                    |   FixFile   |
	                    | decode/fix/ |
	                    |   encode    |
	                    +-------------+

🎯 Purpose:
- Turns command line roots into the list of files engfix may touch
- Reads each file through a Codec, fixes it with the rule for its extension
  and writes it back with its original permissions
- Runs files concurrently with a bounded worker count
- Re-fixes files as they change when watching

🔄 Flow:
1. Discover walks the roots, applying access checks, globs and rules
2. Runner executes an Operation for every path
3. Per-file failures land in Report.Failures unless fail_fast is set,
   in which case the first failure cancels the rest
4. Watcher feeds debounced file system events back into the Operation

The fixer core stays synchronous. Concurrency lives here.

🔍 Example:

	paths, err := operation.Discover(ctx, cfg, []string{"."})
	op, err := operation.NewFixOperation(operation.Options{Config: cfg})
	report, err := operation.NewRunner(cfg.Workers, cfg.FailFast).Run(ctx, op, paths)
	fmt.Println(report.Fixed())
*/
package operation
