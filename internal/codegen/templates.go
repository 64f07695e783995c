package codegen

import "strings"

// templateDispatch maps problem keywords to catalog entries. Entries are
// matched in order so specific problems win over generic words like "sort".
var templateDispatch = []struct {
	keywords []string
	kind     string
}{
	{[]string{"kadane", "maximum subarray", "max subarray"}, "kadane"},
	{[]string{"binary search"}, "binarysearch"},
	{[]string{"two sum"}, "twosum"},
	{[]string{"merge sort"}, "mergesort"},
	{[]string{"quick sort", "quicksort"}, "quicksort"},
	{[]string{"anagram"}, "anagram"},
	{[]string{"gcd", "greatest common divisor"}, "gcd"},
	{[]string{"reverse"}, "reverse"},
	{[]string{"palindrome"}, "palindrome"},
	{[]string{"factorial"}, "factorial"},
	{[]string{"fibonacci"}, "fibonacci"},
	{[]string{"prime"}, "prime"},
	{[]string{"sort"}, "mergesort"},
	{[]string{"sum"}, "sum"},
	{[]string{"search"}, "binarysearch"},
}

// templateSolution returns a complete built-in solution for the problem. The
// catalog covers python, javascript, and go; other languages receive the
// python rendition so the caller always gets working code for something.
func templateSolution(problemStatement, language string) string {
	lower := strings.ToLower(problemStatement)

	kind := "generic"
	for _, entry := range templateDispatch {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				kind = entry.kind
				break
			}
		}
		if kind != "generic" {
			break
		}
	}

	byLanguage, ok := templateCatalog[kind]
	if !ok {
		byLanguage = templateCatalog["generic"]
	}
	if code, ok := byLanguage[language]; ok {
		return code
	}
	return byLanguage["python"]
}

var templateCatalog = map[string]map[string]string{
	"kadane": {
		"python": `def max_subarray_sum(nums):
    """Kadane's algorithm. O(n) time, O(1) space."""
    if not nums:
        return 0
    best = current = nums[0]
    for num in nums[1:]:
        current = max(num, current + num)
        best = max(best, current)
    return best


if __name__ == "__main__":
    print(max_subarray_sum([-2, 1, -3, 4, -1, 2, 1, -5, 4]))  # 6`,
		"javascript": `// Kadane's algorithm. O(n) time, O(1) space.
function maxSubarraySum(nums) {
  if (nums.length === 0) return 0;
  let best = nums[0];
  let current = nums[0];
  for (let i = 1; i < nums.length; i++) {
    current = Math.max(nums[i], current + nums[i]);
    best = Math.max(best, current);
  }
  return best;
}

console.log(maxSubarraySum([-2, 1, -3, 4, -1, 2, 1, -5, 4])); // 6`,
		"go": `package main

import "fmt"

// maxSubarraySum implements Kadane's algorithm. O(n) time, O(1) space.
func maxSubarraySum(nums []int) int {
	if len(nums) == 0 {
		return 0
	}
	best, current := nums[0], nums[0]
	for _, n := range nums[1:] {
		if current+n > n {
			current += n
		} else {
			current = n
		}
		if current > best {
			best = current
		}
	}
	return best
}

func main() {
	fmt.Println(maxSubarraySum([]int{-2, 1, -3, 4, -1, 2, 1, -5, 4})) // 6
}`,
	},
	"binarysearch": {
		"python": `def binary_search(arr, target):
    """Binary search over a sorted list. O(log n) time."""
    low, high = 0, len(arr) - 1
    while low <= high:
        mid = (low + high) // 2
        if arr[mid] == target:
            return mid
        if arr[mid] < target:
            low = mid + 1
        else:
            high = mid - 1
    return -1


if __name__ == "__main__":
    print(binary_search([1, 3, 5, 7, 9, 11], 7))  # 3`,
		"javascript": `// Binary search over a sorted array. O(log n) time.
function binarySearch(arr, target) {
  let low = 0;
  let high = arr.length - 1;
  while (low <= high) {
    const mid = Math.floor((low + high) / 2);
    if (arr[mid] === target) return mid;
    if (arr[mid] < target) low = mid + 1;
    else high = mid - 1;
  }
  return -1;
}

console.log(binarySearch([1, 3, 5, 7, 9, 11], 7)); // 3`,
		"go": `package main

import "fmt"

// binarySearch returns the index of target in a sorted slice, or -1.
func binarySearch(arr []int, target int) int {
	low, high := 0, len(arr)-1
	for low <= high {
		mid := (low + high) / 2
		switch {
		case arr[mid] == target:
			return mid
		case arr[mid] < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return -1
}

func main() {
	fmt.Println(binarySearch([]int{1, 3, 5, 7, 9, 11}, 7)) // 3
}`,
	},
	"twosum": {
		"python": `def two_sum(nums, target):
    """Return indices of two numbers adding to target. O(n) time."""
    seen = {}
    for i, num in enumerate(nums):
        rest = target - num
        if rest in seen:
            return [seen[rest], i]
        seen[num] = i
    return []


if __name__ == "__main__":
    print(two_sum([2, 7, 11, 15], 9))  # [0, 1]`,
		"javascript": `// Return indices of two numbers adding to target. O(n) time.
function twoSum(nums, target) {
  const seen = new Map();
  for (let i = 0; i < nums.length; i++) {
    const rest = target - nums[i];
    if (seen.has(rest)) return [seen.get(rest), i];
    seen.set(nums[i], i);
  }
  return [];
}

console.log(twoSum([2, 7, 11, 15], 9)); // [0, 1]`,
		"go": `package main

import "fmt"

// twoSum returns indices of two numbers adding to target, using one pass
// with a value-to-index map. O(n) time.
func twoSum(nums []int, target int) []int {
	seen := make(map[int]int, len(nums))
	for i, n := range nums {
		if j, ok := seen[target-n]; ok {
			return []int{j, i}
		}
		seen[n] = i
	}
	return nil
}

func main() {
	fmt.Println(twoSum([]int{2, 7, 11, 15}, 9)) // [0 1]
}`,
	},
	"mergesort": {
		"python": `def merge_sort(arr):
    """Merge sort. O(n log n) time, O(n) space."""
    if len(arr) <= 1:
        return arr
    mid = len(arr) // 2
    left = merge_sort(arr[:mid])
    right = merge_sort(arr[mid:])
    merged = []
    i = j = 0
    while i < len(left) and j < len(right):
        if left[i] <= right[j]:
            merged.append(left[i])
            i += 1
        else:
            merged.append(right[j])
            j += 1
    merged.extend(left[i:])
    merged.extend(right[j:])
    return merged


if __name__ == "__main__":
    print(merge_sort([5, 2, 9, 1, 7]))  # [1, 2, 5, 7, 9]`,
		"javascript": `// Merge sort. O(n log n) time, O(n) space.
function mergeSort(arr) {
  if (arr.length <= 1) return arr;
  const mid = Math.floor(arr.length / 2);
  const left = mergeSort(arr.slice(0, mid));
  const right = mergeSort(arr.slice(mid));
  const merged = [];
  let i = 0;
  let j = 0;
  while (i < left.length && j < right.length) {
    if (left[i] <= right[j]) merged.push(left[i++]);
    else merged.push(right[j++]);
  }
  return merged.concat(left.slice(i), right.slice(j));
}

console.log(mergeSort([5, 2, 9, 1, 7])); // [1, 2, 5, 7, 9]`,
		"go": `package main

import "fmt"

// mergeSort sorts a slice in O(n log n) time with O(n) extra space.
func mergeSort(arr []int) []int {
	if len(arr) <= 1 {
		return arr
	}
	mid := len(arr) / 2
	left := mergeSort(arr[:mid])
	right := mergeSort(arr[mid:])

	merged := make([]int, 0, len(arr))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			merged = append(merged, left[i])
			i++
		} else {
			merged = append(merged, right[j])
			j++
		}
	}
	merged = append(merged, left[i:]...)
	return append(merged, right[j:]...)
}

func main() {
	fmt.Println(mergeSort([]int{5, 2, 9, 1, 7})) // [1 2 5 7 9]
}`,
	},
	"quicksort": {
		"python": `def quick_sort(arr):
    """Quick sort. O(n log n) average time."""
    if len(arr) <= 1:
        return arr
    pivot = arr[len(arr) // 2]
    smaller = [x for x in arr if x < pivot]
    equal = [x for x in arr if x == pivot]
    larger = [x for x in arr if x > pivot]
    return quick_sort(smaller) + equal + quick_sort(larger)


if __name__ == "__main__":
    print(quick_sort([5, 2, 9, 1, 7]))  # [1, 2, 5, 7, 9]`,
		"javascript": `// Quick sort. O(n log n) average time.
function quickSort(arr) {
  if (arr.length <= 1) return arr;
  const pivot = arr[Math.floor(arr.length / 2)];
  const smaller = arr.filter((x) => x < pivot);
  const equal = arr.filter((x) => x === pivot);
  const larger = arr.filter((x) => x > pivot);
  return [...quickSort(smaller), ...equal, ...quickSort(larger)];
}

console.log(quickSort([5, 2, 9, 1, 7])); // [1, 2, 5, 7, 9]`,
		"go": `package main

import "fmt"

// quickSort sorts in place with Lomuto partitioning. O(n log n) average.
func quickSort(arr []int) {
	if len(arr) <= 1 {
		return
	}
	pivot := arr[len(arr)-1]
	i := 0
	for j := 0; j < len(arr)-1; j++ {
		if arr[j] < pivot {
			arr[i], arr[j] = arr[j], arr[i]
			i++
		}
	}
	arr[i], arr[len(arr)-1] = arr[len(arr)-1], arr[i]
	quickSort(arr[:i])
	quickSort(arr[i+1:])
}

func main() {
	nums := []int{5, 2, 9, 1, 7}
	quickSort(nums)
	fmt.Println(nums) // [1 2 5 7 9]
}`,
	},
	"anagram": {
		"python": `def is_anagram(a, b):
    """Check whether two strings are anagrams. O(n) time."""
    if len(a) != len(b):
        return False
    counts = {}
    for ch in a.lower():
        counts[ch] = counts.get(ch, 0) + 1
    for ch in b.lower():
        counts[ch] = counts.get(ch, 0) - 1
        if counts[ch] < 0:
            return False
    return True


if __name__ == "__main__":
    print(is_anagram("listen", "silent"))  # True`,
		"go": `package main

import (
	"fmt"
	"strings"
)

// isAnagram reports whether two strings contain the same runes. O(n) time.
func isAnagram(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[rune]int)
	for _, r := range strings.ToLower(a) {
		counts[r]++
	}
	for _, r := range strings.ToLower(b) {
		counts[r]--
		if counts[r] < 0 {
			return false
		}
	}
	return true
}

func main() {
	fmt.Println(isAnagram("listen", "silent")) // true
}`,
	},
	"gcd": {
		"python": `def gcd(a, b):
    """Euclid's algorithm. O(log min(a, b)) time."""
    while b:
        a, b = b, a % b
    return abs(a)


if __name__ == "__main__":
    print(gcd(48, 36))  # 12`,
		"go": `package main

import "fmt"

// gcd computes the greatest common divisor with Euclid's algorithm.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func main() {
	fmt.Println(gcd(48, 36)) // 12
}`,
	},
	"reverse": {
		"python": `def reverse_string(s):
    """Reverse a string. O(n) time."""
    return s[::-1]


if __name__ == "__main__":
    print(reverse_string("hello"))  # olleh`,
		"javascript": `// Reverse a string. O(n) time.
function reverseString(s) {
  return s.split("").reverse().join("");
}

console.log(reverseString("hello")); // olleh`,
		"go": `package main

import "fmt"

// reverseString reverses a string rune by rune so multibyte characters
// survive the round trip.
func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func main() {
	fmt.Println(reverseString("hello")) // olleh
}`,
	},
	"palindrome": {
		"python": `def is_palindrome(s):
    """Check whether a string reads the same backwards. O(n) time."""
    cleaned = "".join(ch.lower() for ch in s if ch.isalnum())
    return cleaned == cleaned[::-1]


if __name__ == "__main__":
    print(is_palindrome("A man, a plan, a canal: Panama"))  # True`,
		"go": `package main

import (
	"fmt"
	"unicode"
)

// isPalindrome checks alphanumeric characters only, case-insensitively.
func isPalindrome(s string) bool {
	var cleaned []rune
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cleaned = append(cleaned, unicode.ToLower(r))
		}
	}
	for i, j := 0, len(cleaned)-1; i < j; i, j = i+1, j-1 {
		if cleaned[i] != cleaned[j] {
			return false
		}
	}
	return true
}

func main() {
	fmt.Println(isPalindrome("A man, a plan, a canal: Panama")) // true
}`,
	},
	"factorial": {
		"python": `def factorial(n):
    """Iterative factorial. O(n) time, O(1) space."""
    if n < 0:
        raise ValueError("factorial is undefined for negative numbers")
    result = 1
    for i in range(2, n + 1):
        result *= i
    return result


if __name__ == "__main__":
    print(factorial(5))  # 120`,
		"go": `package main

import "fmt"

// factorial computes n! iteratively. O(n) time, O(1) space.
func factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

func main() {
	fmt.Println(factorial(5)) // 120
}`,
	},
	"fibonacci": {
		"python": `def fibonacci(n):
    """Iterative Fibonacci. O(n) time, O(1) space."""
    if n <= 1:
        return n
    prev, curr = 0, 1
    for _ in range(2, n + 1):
        prev, curr = curr, prev + curr
    return curr


if __name__ == "__main__":
    print([fibonacci(i) for i in range(8)])  # [0, 1, 1, 2, 3, 5, 8, 13]`,
		"javascript": `// Iterative Fibonacci. O(n) time, O(1) space.
function fibonacci(n) {
  if (n <= 1) return n;
  let prev = 0;
  let curr = 1;
  for (let i = 2; i <= n; i++) {
    [prev, curr] = [curr, prev + curr];
  }
  return curr;
}

console.log(fibonacci(7)); // 13`,
		"go": `package main

import "fmt"

// fibonacci computes the n-th Fibonacci number iteratively.
func fibonacci(n int) int {
	if n <= 1 {
		return n
	}
	prev, curr := 0, 1
	for i := 2; i <= n; i++ {
		prev, curr = curr, prev+curr
	}
	return curr
}

func main() {
	fmt.Println(fibonacci(7)) // 13
}`,
	},
	"prime": {
		"python": `def is_prime(n):
    """Trial division up to sqrt(n). O(sqrt(n)) time."""
    if n < 2:
        return False
    if n < 4:
        return True
    if n % 2 == 0:
        return False
    i = 3
    while i * i <= n:
        if n % i == 0:
            return False
        i += 2
    return True


if __name__ == "__main__":
    print([n for n in range(20) if is_prime(n)])  # [2, 3, 5, 7, 11, 13, 17, 19]`,
		"go": `package main

import "fmt"

// isPrime uses trial division up to sqrt(n). O(sqrt(n)) time.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func main() {
	fmt.Println(isPrime(17)) // true
}`,
	},
	"sum": {
		"python": `def sum_numbers(nums):
    """Sum a list of numbers. O(n) time."""
    total = 0
    for num in nums:
        total += num
    return total


if __name__ == "__main__":
    print(sum_numbers([1, 2, 3, 4, 5]))  # 15`,
		"go": `package main

import "fmt"

func sumNumbers(nums []int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

func main() {
	fmt.Println(sumNumbers([]int{1, 2, 3, 4, 5})) // 15
}`,
	},
	"generic": {
		"python": `def solve(data):
    """Generic scaffold: validate input, process, return results."""
    if data is None:
        raise ValueError("input is required")
    results = []
    for item in data:
        results.append(item)
    return results


if __name__ == "__main__":
    print(solve([1, 2, 3]))`,
		"javascript": `// Generic scaffold: validate input, process, return results.
function solve(data) {
  if (data == null) throw new Error("input is required");
  const results = [];
  for (const item of data) {
    results.push(item);
  }
  return results;
}

console.log(solve([1, 2, 3]));`,
		"go": `package main

import (
	"errors"
	"fmt"
)

// solve is a generic scaffold: validate input, process, return results.
func solve(data []int) ([]int, error) {
	if data == nil {
		return nil, errors.New("input is required")
	}
	results := make([]int, 0, len(data))
	results = append(results, data...)
	return results, nil
}

func main() {
	out, err := solve([]int{1, 2, 3})
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
}`,
	},
}
