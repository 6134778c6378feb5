// Package cli implements the fitroom command line: generating try-on images,
// checking remote job status, listing the local job history and managing
// saved outfits.
//
//	fitroom [config flags] generate -photo me.jpg -garment shirt.png [-out result.jpg]
//	fitroom [config flags] generate -photo me.jpg -upper shirt.png -lower jeans.png
//	fitroom [config flags] status <task-id>
//	fitroom [config flags] history [-n 20]
//	fitroom [config flags] outfits list [-category Formal]
//	fitroom [config flags] outfits save -name "Blue suit" -image result.jpg
//	fitroom [config flags] outfits delete <id>
//	fitroom [config flags] outfits favorite <id> true|false
package cli
